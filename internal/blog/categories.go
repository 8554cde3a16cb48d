package blog

// Category describes one of the fixed article categories.
type Category struct {
	Slug string
	Name string
	Desc string
}

// CategoryOrder is the display order used on index pages and in the sitemap.
var CategoryOrder = []string{
	"grundlagen", "reviere", "boote", "ausruestung", "wissen", "geschichten",
}

// Categories is the fixed category set of the site.
var Categories = map[string]Category{
	"grundlagen": {
		Slug: "grundlagen",
		Name: "Grundlagen",
		Desc: "Segeln lernen von Anfang an: Grundbegriffe, erste Schritte und Basiswissen fuer Einsteiger.",
	},
	"reviere": {
		Slug: "reviere",
		Name: "Reviere",
		Desc: "Die schoensten Segelreviere weltweit: Tipps, Routen und Insiderwissen fuer deinen naechsten Toern.",
	},
	"boote": {
		Slug: "boote",
		Name: "Boote",
		Desc: "Bootstypen, Tests und Kaufberatung: Finde das perfekte Boot fuer deine Beduerfnisse.",
	},
	"ausruestung": {
		Slug: "ausruestung",
		Name: "Ausruestung",
		Desc: "Die beste Segelausruestung: Bekleidung, Elektronik und Zubehoer im Test.",
	},
	"wissen": {
		Slug: "wissen",
		Name: "Wissen",
		Desc: "Vertieftes Segelwissen: Wetterkunde, Navigation, Seemannschaft und Sicherheit auf See.",
	},
	"geschichten": {
		Slug: "geschichten",
		Name: "Geschichten",
		Desc: "Erlebnisse auf See: Persoenliche Geschichten, Abenteuer und Lektionen von Kapitaen Hannes.",
	},
}

// CategoryOrDefault resolves a category slug, falling back to "wissen" for
// anything the model invented.
func CategoryOrDefault(slug string) Category {
	if c, ok := Categories[slug]; ok {
		return c
	}
	return Categories["wissen"]
}

// ContentType is a (type, category, instructional prompt) triple drawn
// uniformly at random for each topic-research call.
type ContentType struct {
	Type     string
	Category string
	Prompt   string
}

// ContentTypes is the fixed content-type rotation.
var ContentTypes = []ContentType{
	{Type: "ratgeber", Category: "grundlagen", Prompt: "Schreibe einen ausfuehrlichen Ratgeber/How-To Artikel zum Thema Segeln."},
	{Type: "revier-guide", Category: "reviere", Prompt: "Schreibe einen detaillierten Revier-Guide ueber ein Segelrevier."},
	{Type: "boots-review", Category: "boote", Prompt: "Schreibe eine ausfuehrliche Boots-Review/Kaufberatung."},
	{Type: "checkliste", Category: "ausruestung", Prompt: "Schreibe einen Checklisten-Artikel fuer Segler."},
	{Type: "geschichte", Category: "geschichten", Prompt: "Schreibe eine persoenliche Segel-Geschichte aus der Ich-Perspektive von Kapitaen Hannes."},
	{Type: "wissen", Category: "wissen", Prompt: "Schreibe einen Wissens-Artikel ueber ein technisches Segel-Thema."},
	{Type: "ausruestung", Category: "ausruestung", Prompt: "Schreibe einen Ausruestungs-Guide fuer Segler."},
}

package pipeline

import (
	"fmt"
	"strings"

	"github.com/nichtagentur/blogforge/internal/blog"
)

var germanMonths = [...]string{
	"Januar", "Februar", "Maerz", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

func researchPrompt(ct blog.ContentType, month string, year int, usedTopics, recentTitles []string, forced string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Du bist ein erfahrener Segel-Redakteur. Es ist %s %d.\n\n", month, year)
	if forced != "" {
		fmt.Fprintf(&b, "Bereite GENAU dieses vorgegebene Thema als %s-Artikel auf: %s\n\n", ct.Type, forced)
	} else {
		fmt.Fprintf(&b, "Generiere EIN konkretes Thema fuer einen %s-Artikel zum Thema Segeln.\n\n", ct.Type)
	}
	fmt.Fprintf(&b, "Bereits verwendete Themen (NICHT wiederholen):\n%s\n\n", strings.Join(usedTopics, "\n"))
	fmt.Fprintf(&b, "Bereits existierende Artikel:\n%s\n\n", strings.Join(recentTitles, "\n"))
	fmt.Fprintf(&b, "Content-Typ: %s\nKategorie: %s\n\n", ct.Type, blog.Categories[ct.Category].Name)
	fmt.Fprintf(&b, `Das Thema soll:
- Saisonpassend fuer %s sein
- Suchmaschinenrelevant (hohes Suchvolumen)
- Konkret und spezifisch (nicht zu allgemein)
- Fuer deutschsprachige Segler relevant

Antworte NUR mit einem JSON-Objekt:
{
  "topic": "Das konkrete Thema",
  "title": "SEO-optimierter Titel (max 60 Zeichen)",
  "meta_description": "Meta-Description (genau 150-155 Zeichen)",
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "image_prompt": "Beschreibung fuer ein Hero-Bild (auf Englisch, fotorealistisch, Segelthema)"
}`, month)
	return b.String()
}

func widgetHint(category string) string {
	switch category {
	case "wissen":
		return "\n\nFuege an passender Stelle dieses Beaufort-Widget ein:\n{{BEAUFORT_WIDGET}}\n"
	case "reviere":
		return "\n\nFuege an passender Stelle diesen Seemeilen-Rechner ein:\n{{CALCULATOR_WIDGET}}\n"
	default:
		return ""
	}
}

func draftPrompt(topic blog.TopicRecord, baseURL string, recent []blog.ArticleRecord) string {
	links := make([]string, 0, len(recent))
	for _, p := range recent {
		links = append(links, fmt.Sprintf("- [%s](%s/posts/%s/)", p.Title, baseURL, p.Slug))
	}
	existingLinks := strings.Join(links, "\n")
	if existingLinks == "" {
		existingLinks = "(noch keine existierenden Artikel)"
	}

	return fmt.Sprintf(`Du bist Kapitaen Hannes, ein erfahrener Segellehrer mit 20+ Jahren Erfahrung. Du schreibst fuer deinen Blog "Segeln Lernen".

%s

THEMA: %s
TITEL: %s

STIL:
- Warm, persoenlich, erfahren
- Persoenliche Anekdoten einbauen ("Als ich letzten Sommer vor Sardinien...")
- Du-Ansprache an den Leser
- Praxisnah mit konkreten Tipps
- 1800-2500 Woerter

STRUKTUR:
- Einleitung (persoenlich, packendes Intro)
- 4-6 Abschnitte mit H2-Ueberschriften (keyword-optimiert)
- Jeder Abschnitt mit H3-Unterueberschriften wo sinnvoll
- Konkrete Tipps, Zahlen, Fakten
- Fazit mit Zusammenfassung
%s
INTERNE LINKS (baue 1-2 davon natuerlich ein, falls thematisch passend):
%s

SPEZIAL-ELEMENTE (verwende HTML):
- Tipp-Box: <div class="info-box info-box-tip"><svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="12" cy="12" r="10"/><path d="M12 16v-4M12 8h.01"/></svg><div>TIPP TEXT</div></div>
- Warnung-Box: <div class="info-box info-box-warning"><svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M10.29 3.86L1.82 18a2 2 0 001.71 3h16.94a2 2 0 001.71-3L13.71 3.86a2 2 0 00-3.42 0z"/><path d="M12 9v4M12 17h.01"/></svg><div>WARNUNG TEXT</div></div>
- Blockquote: <blockquote>Zitat</blockquote>

Antworte NUR mit einem JSON-Objekt:
{
  "content": "Der komplette Artikel als HTML (nur der Body-Content, keine h1)",
  "faq": [
    {"question": "Frage 1?", "answer": "Antwort 1"},
    {"question": "Frage 2?", "answer": "Antwort 2"},
    {"question": "Frage 3?", "answer": "Antwort 3"}
  ],
  "image_alt": "Beschreibender Alt-Text fuer das Hero-Bild (deutsch)"
}`, topic.ContentType.Prompt, topic.Topic, topic.Title, widgetHint(topic.ContentType.Category), existingLinks)
}

func factCheckQuery(topic blog.TopicRecord, excerpt string) string {
	return fmt.Sprintf(`Pruefe die wichtigsten Fakten dieses Segel-Artikels und finde serioese Quellen.

THEMA: %s

AUSZUG:
%s

Antworte NUR mit einem JSON-Objekt:
{
  "sources": [{"title": "Quellentitel", "url": "https://..."}],
  "corrections": ["Korrektur 1", "Korrektur 2"],
  "verified": true
}`, topic.Topic, excerpt)
}

func evaluatePrompt(content string) string {
	return fmt.Sprintf(`Du bist Qualitaets-Lektor fuer einen Segelblog. Bewerte den folgenden Artikel.

KRITERIEN:
- Erfahrung, Expertise, Autoritaet, Vertrauen erkennbar
- Ton: warm, persoenlich, Du-Ansprache, wie ein erfahrener Segellehrer
- Laenge: 1800-2500 Woerter
- Struktur: klare H2-Abschnitte, konkrete Tipps

ARTIKEL:
%s

Antworte NUR mit einem JSON-Objekt:
{
  "score": 0,
  "issues": ["Problem 1"],
  "suggestions": ["Vorschlag 1"]
}
Der Score ist eine Ganzzahl von 0 bis 10.`, content)
}

func revisePrompt(content string, issues, suggestions, corrections []string) string {
	var b strings.Builder
	b.WriteString("Du bist Kapitaen Hannes. Ueberarbeite deinen Artikel anhand des Lektorats. Behalte Stil, Struktur und Laenge bei.\n\n")
	if len(issues) > 0 {
		fmt.Fprintf(&b, "PROBLEME:\n- %s\n\n", strings.Join(issues, "\n- "))
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(&b, "VORSCHLAEGE:\n- %s\n\n", strings.Join(suggestions, "\n- "))
	}
	if len(corrections) > 0 {
		fmt.Fprintf(&b, "FAKTEN-KORREKTUREN (unbedingt einarbeiten):\n- %s\n\n", strings.Join(corrections, "\n- "))
	}
	fmt.Fprintf(&b, "ARTIKEL:\n%s\n\n", content)
	b.WriteString(`Antworte NUR mit einem JSON-Objekt:
{
  "content": "Der komplette ueberarbeitete Artikel als HTML"
}`)
	return b.String()
}

func productQuery(topic blog.TopicRecord, marketplaceDomain string) string {
	return fmt.Sprintf(`Empfiehl EIN guenstiges, gut bewertetes Produkt fuer Segler passend zur Kategorie "%s" und zum Thema "%s". Die URL muss auf %s liegen.

Antworte NUR mit einem JSON-Objekt:
{
  "name": "Produktname",
  "url": "https://www.%s/...",
  "reason": "Ein Satz, warum das Produkt passt"
}`, blog.Categories[topic.Category].Name, topic.Topic, marketplaceDomain, marketplaceDomain)
}

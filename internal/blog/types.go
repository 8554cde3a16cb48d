// Package blog holds the core domain types and service interfaces shared by
// the generation pipeline, the stores, and the assistant API.
package blog

// TopicRecord is the result of topic research: one concrete article topic with
// the SEO metadata the page assembler needs. Slug is derived, never generated
// by the model.
type TopicRecord struct {
	Topic           string   `json:"topic"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	Category        string   `json:"category"`
	Slug            string   `json:"-"`
	ImagePrompt     string   `json:"image_prompt"`
	ContentType     ContentType
}

// FAQEntry is one question/answer pair appended below the article body.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Draft is the mutable article body owned by a single pipeline run.
type Draft struct {
	Content  string     `json:"content"`
	FAQ      []FAQEntry `json:"faq"`
	ImageAlt string     `json:"image_alt"`
}

// Source is one fact-check citation that survived a reachability probe.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FactCheckResult is advisory: an empty result never blocks the run.
type FactCheckResult struct {
	Sources     []Source `json:"sources"`
	Corrections []string `json:"corrections"`
}

// QualityVerdict is one evaluation of a draft by the quality gate.
// It drives the revise loop and is never persisted.
type QualityVerdict struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// ArticleRecord is the persisted article metadata. Records are created once at
// the end of a successful run, appended to the store, and never mutated.
// JSON field names match the on-disk posts document format.
type ArticleRecord struct {
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Category        string   `json:"category"`
	Keywords        []string `json:"keywords"`
	DateISO         string   `json:"dateISO"`
	DateDisplay     string   `json:"dateDisplay"`
	ReadTime        int      `json:"readTime"`
	ImageAlt        string   `json:"imageAlt"`
	ContentType     string   `json:"contentType"`
}

// ProductPick is a single marketplace recommendation used by the monetization
// stage. URL must belong to the configured marketplace domain and pass a
// reachability probe before the callout is inserted.
type ProductPick struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

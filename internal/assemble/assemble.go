// Package assemble renders a finished article page from a draft. It is a pure
// transformation: TOC generation, widget embedding, FAQ markup, related
// articles, the sources block, and exact placeholder-token replacement into
// the post template.
package assemble

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nichtagentur/blogforge/internal/blog"
)

var h2Pattern = regexp.MustCompile(`(?is)<h2[^>]*>(.*?)</h2>`)

// Input carries everything needed to render one post page.
type Input struct {
	Topic   blog.TopicRecord
	Draft   blog.Draft
	Sources []blog.Source
	// Records is the full persisted set, used for the related-articles block.
	Records []blog.ArticleRecord
	BaseURL string
	Now     time.Time
}

// TOC scans second-level headings in document order, assigns sequential
// section-N anchor ids, and returns the TOC markup plus the content with ids
// written into the headings. Content without h2 headings yields an empty TOC.
func TOC(content string) (string, string) {
	matches := h2Pattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", content
	}
	var toc strings.Builder
	toc.WriteString(`<div class="toc"><div class="toc-title">Inhalt</div><ol>`)
	out := content
	for i, m := range matches {
		id := "section-" + strconv.Itoa(i+1)
		fmt.Fprintf(&toc, `<li><a href="#%s">%s</a></li>`, id, m[1])
		out = strings.Replace(out, m[0], fmt.Sprintf(`<h2 id="%s">%s</h2>`, id, m[1]), 1)
	}
	toc.WriteString("</ol></div>")
	return toc.String(), out
}

// EmbedWidgets substitutes the two known widget tokens, once each.
func EmbedWidgets(content string) string {
	content = strings.Replace(content, "{{BEAUFORT_WIDGET}}", beaufortWidget, 1)
	content = strings.Replace(content, "{{CALCULATOR_WIDGET}}", calculatorWidget, 1)
	return content
}

// FAQHTML renders the FAQ section, or an empty string without entries.
func FAQHTML(faq []blog.FAQEntry) string {
	if len(faq) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<section class="faq-section"><h2>Haeufig gestellte Fragen</h2>`)
	for _, f := range faq {
		fmt.Fprintf(&b, `<div class="faq-item"><div class="faq-question">%s</div><div class="faq-answer">%s</div></div>`,
			f.Question, f.Answer)
	}
	b.WriteString("</section>")
	return b.String()
}

// FAQJSONLD renders the schema.org Question items, comma separated, for
// embedding into the FAQPage structured-data block of the template.
func FAQJSONLD(faq []blog.FAQEntry) string {
	if len(faq) == 0 {
		return ""
	}
	items := make([]string, 0, len(faq))
	for _, f := range faq {
		q, _ := json.Marshal(f.Question)
		a, _ := json.Marshal(f.Answer)
		items = append(items, fmt.Sprintf(`{"@type":"Question","name":%s,"acceptedAnswer":{"@type":"Answer","text":%s}}`, q, a))
	}
	return strings.Join(items, ",")
}

// CardHTML renders one article card as used on listing pages and in the
// related-articles block.
func CardHTML(baseURL string, post blog.ArticleRecord, featured bool) string {
	cls := "card fade-in"
	if featured {
		cls = "card card-featured fade-in"
	}
	alt := post.ImageAlt
	if alt == "" {
		alt = post.Title
	}
	category := post.Category
	if cat, ok := blog.Categories[post.Category]; ok {
		category = cat.Name
	}
	return fmt.Sprintf(`<div class="%s">
    <img class="card-image" src="%s/posts/%s/hero.webp" alt="%s" loading="lazy" width="600" height="220">
    <div class="card-body">
      <span class="card-category">%s</span>
      <h3 class="card-title"><a href="%s/posts/%s/">%s</a></h3>
      <p class="card-excerpt">%s</p>
      <div class="card-meta">
        <span><svg width="14" height="14" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="12" cy="12" r="10"/><path d="M12 6v6l4 2"/></svg> %d Min.</span>
        <span>%s</span>
      </div>
    </div>
  </div>`, cls, baseURL, post.Slug, html.EscapeString(alt), category, baseURL, post.Slug, post.Title, post.MetaDescription, post.ReadTime, post.DateDisplay)
}

// RelatedRecords picks the 3 most recently published records, newest last,
// excluding the given slug.
func RelatedRecords(records []blog.ArticleRecord, excludeSlug string) []blog.ArticleRecord {
	var filtered []blog.ArticleRecord
	for _, r := range records {
		if r.Slug != excludeSlug {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) > 3 {
		filtered = filtered[len(filtered)-3:]
	}
	return filtered
}

// RelatedHTML renders the related-articles block, or an empty string when no
// other articles exist.
func RelatedHTML(baseURL string, records []blog.ArticleRecord, excludeSlug string) string {
	related := RelatedRecords(records, excludeSlug)
	if len(related) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="related-posts"><h2>Das koennte dich auch interessieren</h2><div class="card-grid">`)
	for _, p := range related {
		b.WriteString(CardHTML(baseURL, p, false))
	}
	b.WriteString("</div></div>")
	return b.String()
}

// SourcesHTML renders the verified-sources block, or an empty string.
func SourcesHTML(sources []blog.Source) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="sources-section"><h3>Quellen</h3><ul>`)
	for _, s := range sources {
		title := s.Title
		if title == "" {
			title = s.URL
		}
		fmt.Fprintf(&b, `<li><a href="%s" rel="nofollow noopener" target="_blank">%s</a></li>`,
			html.EscapeString(s.URL), html.EscapeString(title))
	}
	b.WriteString("</ul></div>")
	return b.String()
}

var germanMonths = [...]string{
	"Januar", "Februar", "Maerz", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// GermanDate formats a date the way the site displays it, e.g. "29. August 2026".
func GermanDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}

// RenderPost substitutes the full token set into the post template. Every
// token is replaced wherever it occurs.
func RenderPost(tmpl string, in Input) string {
	content := in.Draft.Content
	toc, content := TOC(content)
	content = EmbedWidgets(content)

	imageAlt := in.Draft.ImageAlt
	if imageAlt == "" {
		imageAlt = in.Topic.Title
	}
	category := in.Topic.Category
	if cat, ok := blog.Categories[in.Topic.Category]; ok {
		category = cat.Name
	}

	sources := SourcesHTML(in.Sources)
	if sources != "" {
		content += sources
	}

	// Fixed order so output is identical across runs even when a value
	// happens to contain a token string itself.
	replacements := []struct{ token, value string }{
		{"{{TITLE}}", in.Topic.Title},
		{"{{META_DESCRIPTION}}", in.Topic.MetaDescription},
		{"{{SLUG}}", in.Topic.Slug},
		{"{{DATE_ISO}}", in.Now.Format("2006-01-02")},
		{"{{DATE_DISPLAY}}", GermanDate(in.Now)},
		{"{{CATEGORY}}", category},
		{"{{CATEGORY_SLUG}}", in.Topic.Category},
		{"{{READ_TIME}}", strconv.Itoa(blog.ReadTime(in.Draft.Content))},
		{"{{WORD_COUNT}}", strconv.Itoa(blog.WordCount(in.Draft.Content))},
		{"{{IMAGE_ALT}}", imageAlt},
		{"{{TOC}}", toc},
		{"{{CONTENT}}", content},
		{"{{FAQ_HTML}}", FAQHTML(in.Draft.FAQ)},
		{"{{FAQ_JSON_LD}}", FAQJSONLD(in.Draft.FAQ)},
		{"{{RELATED_POSTS}}", RelatedHTML(in.BaseURL, in.Records, in.Topic.Slug)},
		{"{{BASE_URL}}", in.BaseURL},
		{"{{YEAR}}", strconv.Itoa(in.Now.Year())},
	}
	out := tmpl
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.token, r.value)
	}
	return out
}

// Package jsonx extracts JSON objects from free-form generative output.
//
// Generative adapters return prose that should contain exactly one JSON
// object, but the object is frequently wrapped in markdown fences, preceded by
// commentary, or mildly malformed. Callers need to distinguish a clean parse
// from a repaired one from a total failure, so extraction returns a tagged
// status instead of a bare error.
package jsonx

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Status tags the outcome of an extraction.
type Status int

const (
	// Failed means no usable JSON object was found.
	Failed Status = iota
	// Parsed means the located object parsed strictly.
	Parsed
	// Recovered means a degraded-but-usable object was reconstructed.
	Recovered
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Recovered:
		return "recovered"
	default:
		return "failed"
	}
}

// ExtractObject locates the first top-level JSON object in text and returns
// it. The object is validated with a strict parse; if the outermost
// brace-to-brace span does not parse, progressively shorter spans ending at
// earlier closing braces are tried before giving up.
func ExtractObject(text string) (json.RawMessage, Status) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, Failed
	}

	candidate := text[start:]
	end := strings.LastIndexByte(candidate, '}')
	status := Parsed
	for end > 0 {
		raw := candidate[:end+1]
		if json.Valid([]byte(raw)) {
			return json.RawMessage(raw), status
		}
		// The widest span did not parse; anything shorter counts as a repair.
		status = Recovered
		end = strings.LastIndexByte(candidate[:end], '}')
	}
	return nil, Failed
}

var (
	contentField = regexp.MustCompile(`(?s)"content"\s*:\s*"(.*?)"\s*,\s*"(?:faq|image_alt)"`)
	faqField     = regexp.MustCompile(`(?s)"faq"\s*:\s*(\[.*?\])\s*[,}]`)
	altField     = regexp.MustCompile(`"image_alt"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// RecoveredDraft holds fields salvaged from a malformed draft payload.
type RecoveredDraft struct {
	Content  string
	FAQ      json.RawMessage
	ImageAlt string
}

// RecoverDraft salvages the content field (and, best effort, faq and
// image_alt) from a draft payload that failed a strict parse. The content
// string is unescaped but never truncated; an empty Content means recovery
// failed.
func RecoverDraft(text string) (RecoveredDraft, Status) {
	var out RecoveredDraft

	if m := contentField.FindStringSubmatch(text); m != nil {
		out.Content = Unescape(m[1])
	} else {
		// No trailing field to anchor on; take everything between the first
		// "content":" and the last unescaped quote.
		idx := strings.Index(text, `"content"`)
		if idx < 0 {
			return out, Failed
		}
		rest := text[idx+len(`"content"`):]
		q := strings.IndexByte(rest, '"')
		if q < 0 {
			return out, Failed
		}
		body := rest[q+1:]
		if endQ := lastUnescapedQuote(body); endQ > 0 {
			out.Content = Unescape(body[:endQ])
		}
	}
	if out.Content == "" {
		return out, Failed
	}

	if m := faqField.FindStringSubmatch(text); m != nil && json.Valid([]byte(m[1])) {
		out.FAQ = json.RawMessage(m[1])
	}
	if m := altField.FindStringSubmatch(text); m != nil {
		out.ImageAlt = Unescape(m[1])
	}
	return out, Recovered
}

// Unescape resolves the common JSON string escapes left behind by regex
// extraction.
func Unescape(s string) string {
	r := strings.NewReplacer(
		`\"`, `"`,
		`\n`, "\n",
		`\t`, "\t",
		`\r`, "\r",
		`\/`, "/",
		`\\`, `\`,
	)
	return r.Replace(s)
}

func lastUnescapedQuote(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

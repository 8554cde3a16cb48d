package blog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSlugLen = 60

var (
	umlautFolder = strings.NewReplacer(
		"ä", "ae", "Ä", "ae",
		"ö", "oe", "Ö", "oe",
		"ü", "ue", "Ü", "ue",
		"ß", "ss",
	)
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, German diacritics
// folded, runs of non-alphanumerics collapsed to single hyphens, trimmed, and
// truncated to 60 characters.
func Slugify(text string) string {
	s := umlautFolder.Replace(text)
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		s = strings.TrimRight(s, "-")
	}
	if s == "" {
		return "artikel"
	}
	return s
}

// UniqueSlug enforces slug uniqueness across persisted records by suffixing
// -2, -3, ... until no collision remains, keeping the result within the
// length limit.
func UniqueSlug(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSlugLen {
			trimmed = strings.TrimRight(trimmed[:maxSlugLen-len(suffix)], "-")
		}
		candidate := trimmed + suffix
		if !taken[candidate] {
			return candidate
		}
	}
}

// WordCount counts whitespace-separated tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadTime estimates reading time in minutes at 200 words per minute,
// with a minimum of one minute.
func ReadTime(text string) int {
	minutes := (WordCount(text) + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Truncate shortens text to at most max bytes without splitting a rune.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

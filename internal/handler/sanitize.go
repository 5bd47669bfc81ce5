package handler

import (
	"html"
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxNameLength = 15
	maxChatLength = 60
	defaultName   = "lorem ipsum"
)

var (
	// script and style keep their body out of the result
	blockPattern = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
)

// stripMarkup NFC-normalizes client text, drops control characters and
// removes markup. The result is not yet escaped.
func stripMarkup(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cc)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return ""
	}
	out = blockPattern.ReplaceAllString(out, "")
	return tagPattern.ReplaceAllString(out, "")
}

// sanitize cuts the stripped text to n runes and escapes it, so an entity
// is never split and the result is safe to echo to other clients.
func sanitize(s string, n int) string {
	return html.EscapeString(truncateRunes(stripMarkup(s), n))
}

// sanitizeName cleans a player name; an empty result yields the default.
func sanitizeName(s string) string {
	name := sanitize(s, maxNameLength)
	if name == "" {
		return defaultName
	}
	return name
}

// sanitizeChat cleans a chat line; empty lines are reported as not ok.
func sanitizeChat(s string) (string, bool) {
	text := sanitize(s, maxChatLength)
	if text == "" {
		return "", false
	}
	return text, true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

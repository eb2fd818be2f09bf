// Package sanitize converts between the editable markup surface and the
// plain text kept in the task model. Task text is stored with literal
// newlines; markup exists only at the presentation boundary.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	// Only the tags of these elements are removed; StrictPolicy alone would
	// drop their contents too.
	rawTextTag = regexp.MustCompile(`(?i)</?(script|style)\b[^>]*>`)
	strict     = bluemonday.StrictPolicy()
)

// PlainText turns edited markup into stored text: line-break tags become
// newlines, every other tag is dropped, entities are decoded and the result
// is trimmed.
func PlainText(raw string) string {
	s := lineBreak.ReplaceAllString(raw, "\n")
	s = rawTextTag.ReplaceAllString(s, "")
	s = strict.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// Markup is the inverse of PlainText for the editable surface.
func Markup(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

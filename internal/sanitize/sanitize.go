// Package sanitize cleans contact form input before it is stored and escapes
// it before it is embedded into generated HTML.
package sanitize

import "strings"

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitize trims surrounding whitespace and removes every '<' and '>'.
// It is a minimal filter, not output encoding: quotes and other markup
// characters pass through unchanged.
func Sanitize(s string) string {
	// Trim after removal: stripping a bracket can expose whitespace at an end.
	return strings.TrimSpace(angleBrackets.Replace(s))
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
	"\n", "<br>",
	"\r", "",
	`\`, "&#92;",
)

// EscapeHTML escapes s for embedding into an HTML email body. Newlines become
// <br> and carriage returns are dropped.
func EscapeHTML(s string) string {
	if s == "" {
		return ""
	}
	return htmlEscaper.Replace(s)
}

// Truncate returns at most n code points of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

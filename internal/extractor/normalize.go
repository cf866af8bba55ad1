package extractor

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLines    = regexp.MustCompile(`\n\s*\n`)
)

// NormalizeText collapses whitespace runs to a single space, then blank-line
// runs to a single newline, then trims. The second pass is mostly a no-op after
// the first; keep both, in this order.
func NormalizeText(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

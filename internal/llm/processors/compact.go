package processors

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// page chrome that survives text extraction on script-heavy boards
	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bJavaScript\s+is\s+disabled\b.*?enabled\.`),
		regexp.MustCompile(`(?i)\bCookies?\s+are\s+disabled\b.*?enabled\.`),
		regexp.MustCompile(`(?i)\bPlease\s+enable\s+JavaScript\b[^.]*\.?`),
		regexp.MustCompile(`(?i)\bThis\s+site\s+requires\s+JavaScript\b[^.]*\.?`),
	}
)

// Compact strips browser boilerplate, collapses whitespace and cuts the text
// to at most maxChars runes, marking a cut with "...". maxChars <= 0 keeps
// the full text.
func Compact(text string, maxChars int) string {
	for _, re := range boilerplatePatterns {
		text = re.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))

	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxChars])) + "..."
}

// CharBudget is a rough character allowance for maxTokens, at three
// characters per token
func CharBudget(maxTokens int) int {
	return maxTokens * 3
}

package extractor

import (
	"regexp"
	"strings"
)

// requirementHeadings are scanned independently, in this order
var requirementHeadings = []*regexp.Regexp{
	regexp.MustCompile(`(?i)requirements?[:\s]\s*`),
	regexp.MustCompile(`(?i)qualifications?[:\s]\s*`),
	regexp.MustCompile(`(?i)must haves?[:\s]\s*`),
	regexp.MustCompile(`(?i)required[:\s]\s*`),
}

// ParseRequirements captures the text following each requirement heading up
// to a blank line, a newline followed by a capital letter, or end of text.
// Results are grouped by heading and overlapping captures are not deduplicated.
func ParseRequirements(description string) []string {
	requirements := []string{}
	if description == "" {
		return requirements
	}

	for _, heading := range requirementHeadings {
		pos := 0
		for pos < len(description) {
			loc := heading.FindStringIndex(description[pos:])
			if loc == nil {
				break
			}
			start := pos + loc[1]
			end := start + blockEnd(description[start:])

			if text := strings.TrimSpace(description[start:end]); text != "" {
				requirements = append(requirements, text)
			}

			// headings are never empty, so end > pos
			pos = end
		}
	}
	return requirements
}

// blockEnd returns the offset of the first "\n\n" or "\n[A-Z]" in s, or len(s)
func blockEnd(s string) int {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '\n' {
			continue
		}
		next := s[i+1]
		if next == '\n' || (next >= 'A' && next <= 'Z') {
			return i
		}
	}
	return len(s)
}

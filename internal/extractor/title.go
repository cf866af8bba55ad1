package extractor

import (
	"strings"
	"unicode/utf8"
)

var titleBlocklist = []string{
	"home",
	"about",
	"contact",
	"login",
	"sign up",
	"search",
	"jobs",
	"careers",
	"company",
	"team",
	"news",
	"blog",
}

// IsPlausibleTitle rejects candidates shorter than 3 characters or containing
// navigation boilerplate. Real titles such as "Head of Careers Marketing" are
// rejected too; that false negative is known and accepted.
func IsPlausibleTitle(title string) bool {
	if utf8.RuneCountInString(title) < 3 {
		return false
	}
	lower := strings.ToLower(title)
	for _, word := range titleBlocklist {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

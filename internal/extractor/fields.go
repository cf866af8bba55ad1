package extractor

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinDescriptionLength is the floor a generic description must exceed
const DefaultMinDescriptionLength = 100

// Tier says which selector table produced a match
type Tier string

const (
	TierSite    Tier = "site"
	TierGeneric Tier = "generic"
)

// Match records where an extracted value came from
type Match struct {
	Value    string
	Tier     Tier
	Site     string
	Selector string
}

// FieldExtractor walks the site tier then the generic tier for one field
type FieldExtractor struct {
	rules          *Ruleset
	minDescription int
}

// NewFieldExtractor creates an extractor over rules; a nil ruleset means the
// built-in tables and a non-positive length means the default floor
func NewFieldExtractor(rules *Ruleset, minDescription int) *FieldExtractor {
	if rules == nil {
		rules = DefaultRuleset()
	}
	if minDescription <= 0 {
		minDescription = DefaultMinDescriptionLength
	}
	return &FieldExtractor{rules: rules, minDescription: minDescription}
}

// Extract returns the trimmed value of field, or false when no tier
// produced an accepted match
func (fe *FieldExtractor) Extract(field Field, hostname string, doc Document) (string, bool) {
	m, ok := fe.Match(field, hostname, doc)
	return m.Value, ok
}

// Match is Extract with provenance
func (fe *FieldExtractor) Match(field Field, hostname string, doc Document) (Match, bool) {
	if rule, ok := fe.rules.SiteRule(field, hostname); ok {
		for _, selector := range rule.Selectors {
			raw, found := doc.QueryText(selector)
			if !found {
				continue
			}
			value := clean(field, raw)
			if value == "" {
				continue
			}
			return Match{Value: value, Tier: TierSite, Site: rule.Site, Selector: selector}, true
		}
	}

	for _, selector := range fe.rules.Generic[field] {
		raw, found := doc.QueryText(selector)
		if !found {
			continue
		}
		value := clean(field, raw)
		if !fe.acceptGeneric(field, value) {
			continue
		}
		return Match{Value: value, Tier: TierGeneric, Selector: selector}, true
	}

	return Match{}, false
}

func (fe *FieldExtractor) acceptGeneric(field Field, value string) bool {
	switch field {
	case FieldTitle:
		return IsPlausibleTitle(value)
	case FieldDescription:
		return utf8.RuneCountInString(value) > fe.minDescription
	default:
		return value != ""
	}
}

func clean(field Field, raw string) string {
	if field == FieldDescription {
		return NormalizeText(raw)
	}
	return strings.TrimSpace(raw)
}

package extractor

import "strings"

// Field names one of the extracted posting fields
type Field string

const (
	FieldTitle       Field = "title"
	FieldCompany     Field = "company"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
)

// Fields lists every field in extraction order
var Fields = []Field{FieldTitle, FieldCompany, FieldLocation, FieldDescription}

// HostMatcher decides whether a site rule applies to a hostname
type HostMatcher func(hostname string) bool

// HostContains matches hostnames containing any of the fragments, case-sensitively
func HostContains(fragments ...string) HostMatcher {
	return func(hostname string) bool {
		for _, f := range fragments {
			if strings.Contains(hostname, f) {
				return true
			}
		}
		return false
	}
}

// SelectorRule pairs a host predicate with selectors tried in order
type SelectorRule struct {
	Site      string
	Host      HostMatcher
	Selectors []string
}

// Ruleset holds per-field site rules and the generic fallback selectors
type Ruleset struct {
	Site    map[Field][]SelectorRule
	Generic map[Field][]string
}

// SiteRule returns the first site rule for field whose host predicate matches
func (r *Ruleset) SiteRule(field Field, hostname string) (SelectorRule, bool) {
	for _, rule := range r.Site[field] {
		if rule.Host != nil && rule.Host(hostname) {
			return rule, true
		}
	}
	return SelectorRule{}, false
}

type siteSelectors struct {
	name  string
	host  HostMatcher
	field map[Field][]string
}

var sites = []siteSelectors{
	{
		name: "linkedin",
		host: HostContains("linkedin.com"),
		field: map[Field][]string{
			FieldTitle: {
				".top-card-layout__title",
				".jobs-unified-top-card__job-title",
				".job-details-jobs-unified-top-card__job-title",
				"h1.t-24",
			},
			FieldCompany: {
				".topcard__org-name-link",
				".jobs-unified-top-card__company-name",
				".job-details-jobs-unified-top-card__company-name",
			},
			FieldLocation: {
				".topcard__flavor--bullet",
				".jobs-unified-top-card__bullet",
				".job-details-jobs-unified-top-card__primary-description-container .tvm__text",
			},
			FieldDescription: {
				".description__text",
				".jobs-description-content__text",
				"#job-details",
			},
		},
	},
	{
		name: "indeed",
		host: HostContains("indeed.com"),
		field: map[Field][]string{
			FieldTitle: {
				`[data-testid="jobsearch-JobInfoHeader-title"]`,
				".jobsearch-JobInfoHeader-title",
			},
			FieldCompany: {
				`[data-testid="inlineHeader-companyName"]`,
				`[data-company-name="true"]`,
				".jobsearch-CompanyInfoContainer a",
			},
			FieldLocation: {
				`[data-testid="inlineHeader-companyLocation"]`,
				`[data-testid="job-location"]`,
				".jobsearch-JobInfoHeader-subtitle > div:last-child",
			},
			FieldDescription: {
				"#jobDescriptionText",
				".jobsearch-jobDescriptionText",
			},
		},
	},
	{
		name: "glassdoor",
		host: HostContains("glassdoor."),
		field: map[Field][]string{
			FieldTitle:       {`[data-test="job-title"]`, `h1[id^="jd-job-title"]`},
			FieldCompany:     {`[data-test="employer-name"]`, ".employerName"},
			FieldLocation:    {`[data-test="location"]`, ".location"},
			FieldDescription: {`[data-test="jobDescriptionContent"]`, ".jobDescriptionContent", "#JobDescriptionContainer"},
		},
	},
	{
		name: "monster",
		host: HostContains("monster."),
		field: map[Field][]string{
			FieldTitle:       {`[data-testid="jobTitle"]`, ".job-header-title", "h1.title"},
			FieldCompany:     {`[data-testid="company"]`, ".job-header-company"},
			FieldLocation:    {`[data-testid="jobDetailLocation"]`, ".job-header-location"},
			FieldDescription: {`[data-testid="svx-description-container-inner"]`, "#JobDescription", ".job-description"},
		},
	},
	{
		name: "ziprecruiter",
		host: HostContains("ziprecruiter.com"),
		field: map[Field][]string{
			FieldTitle:       {".job_title", "h1.u-textH2"},
			FieldCompany:     {".hiring_company_text", ".hiring_company"},
			FieldLocation:    {".location_text", ".job_location"},
			FieldDescription: {".job_description", ".jobDescriptionSection"},
		},
	},
	{
		name: "lever",
		host: HostContains("lever.co"),
		field: map[Field][]string{
			FieldTitle:       {".posting-headline h2"},
			FieldLocation:    {".posting-categories .location", ".sort-by-location"},
			FieldDescription: {`[data-qa="job-description"]`, ".posting-page .section-wrapper"},
		},
	},
	{
		name: "greenhouse",
		host: HostContains("greenhouse.io"),
		field: map[Field][]string{
			FieldTitle:       {".app-title", ".job__title h1", "h1.section-header"},
			FieldCompany:     {".company-name"},
			FieldLocation:    {".job__location", ".location"},
			FieldDescription: {".job__description", "#content"},
		},
	},
	{
		name: "workday",
		host: HostContains("myworkdayjobs.com", "workday.com"),
		field: map[Field][]string{
			FieldTitle:       {`[data-automation-id="jobPostingHeader"]`},
			FieldLocation:    {`[data-automation-id="locations"]`},
			FieldDescription: {`[data-automation-id="jobPostingDescription"]`},
		},
	},
}

var genericSelectors = map[Field][]string{
	FieldTitle: {
		"h1",
		`[class*="title"]`,
		`[class*="job-title"]`,
		`[data-testid*="title"]`,
		".job-title",
		".position-title",
	},
	FieldCompany: {
		`[class*="company"]`,
		`[data-testid*="company"]`,
		".company-name",
		".employer",
	},
	FieldLocation: {
		`[class*="location"]`,
		`[data-testid*="location"]`,
		".location",
		".job-location",
	},
	FieldDescription: {
		`[class*="description"]`,
		`[class*="job-description"]`,
		`[data-testid*="description"]`,
		".job-details",
		".content",
		"main",
	},
}

// DefaultRuleset returns the built-in site and generic selector tables
func DefaultRuleset() *Ruleset {
	rs := &Ruleset{
		Site:    make(map[Field][]SelectorRule),
		Generic: make(map[Field][]string),
	}
	for _, s := range sites {
		for _, f := range Fields {
			selectors, ok := s.field[f]
			if !ok {
				continue
			}
			rs.Site[f] = append(rs.Site[f], SelectorRule{Site: s.name, Host: s.host, Selectors: selectors})
		}
	}
	for f, selectors := range genericSelectors {
		rs.Generic[f] = selectors
	}
	return rs
}

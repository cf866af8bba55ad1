package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTML(html)
	require.NoError(t, err)
	return doc
}

func TestFieldExtractor_Extract(t *testing.T) {
	long := strings.Repeat("Build and operate services. ", 6)

	tests := []struct {
		name     string
		field    Field
		hostname string
		html     string
		want     string
		wantOK   bool
		wantTier Tier
	}{
		{
			name:     "indeed title by test id",
			field:    FieldTitle,
			hostname: "www.indeed.com",
			html:     `<h1 data-testid="jobsearch-JobInfoHeader-title"> Senior Engineer </h1>`,
			want:     "Senior Engineer",
			wantOK:   true,
			wantTier: TierSite,
		},
		{
			name:     "site title is trusted even when implausible",
			field:    FieldTitle,
			hostname: "www.indeed.com",
			html:     `<h1 class="jobsearch-JobInfoHeader-title">Jobs</h1>`,
			want:     "Jobs",
			wantOK:   true,
			wantTier: TierSite,
		},
		{
			name:     "uppercase host skips the site tier",
			field:    FieldTitle,
			hostname: "WWW.INDEED.COM",
			html:     `<h1 class="jobsearch-JobInfoHeader-title">Jobs</h1>`,
			wantOK:   false,
		},
		{
			name:     "site selector with empty text falls to the next one",
			field:    FieldTitle,
			hostname: "www.linkedin.com",
			html:     `<h1 class="top-card-layout__title">  </h1><h2 class="jobs-unified-top-card__job-title">Data Scientist</h2>`,
			want:     "Data Scientist",
			wantOK:   true,
			wantTier: TierSite,
		},
		{
			name:     "site rule resolving nothing falls back to generic",
			field:    FieldTitle,
			hostname: "www.indeed.com",
			html:     `<h1>Platform Engineer</h1>`,
			want:     "Platform Engineer",
			wantOK:   true,
			wantTier: TierGeneric,
		},
		{
			name:     "generic title skips implausible candidates",
			field:    FieldTitle,
			hostname: "acme.dev",
			html:     `<h1>Jobs</h1><div class="job-title">Backend Developer</div>`,
			want:     "Backend Developer",
			wantOK:   true,
			wantTier: TierGeneric,
		},
		{
			name:     "site description accepted regardless of length",
			field:    FieldDescription,
			hostname: "www.indeed.com",
			html:     `<div id="jobDescriptionText">Short.</div>`,
			want:     "Short.",
			wantOK:   true,
			wantTier: TierSite,
		},
		{
			name:     "short generic description rejected",
			field:    FieldDescription,
			hostname: "acme.dev",
			html:     `<div class="description">Too short</div>`,
			wantOK:   false,
		},
		{
			name:     "long generic description normalized",
			field:    FieldDescription,
			hostname: "acme.dev",
			html:     "<div class=\"job-description\">\n  " + long + "\n\n</div>",
			want:     strings.TrimSpace(long),
			wantOK:   true,
			wantTier: TierGeneric,
		},
		{
			name:     "generic company",
			field:    FieldCompany,
			hostname: "acme.dev",
			html:     `<span class="company-name"> Acme Corp </span>`,
			want:     "Acme Corp",
			wantOK:   true,
			wantTier: TierGeneric,
		},
		{
			name:     "lever has no company rule",
			field:    FieldCompany,
			hostname: "jobs.lever.co",
			html:     `<div class="posting-company">Lever Co</div>`,
			want:     "Lever Co",
			wantOK:   true,
			wantTier: TierGeneric,
		},
		{
			name:     "workday location",
			field:    FieldLocation,
			hostname: "acme.wd5.myworkdayjobs.com",
			html:     `<dd data-automation-id="locations">Remote, US</dd>`,
			want:     "Remote, US",
			wantOK:   true,
			wantTier: TierSite,
		},
		{
			name:     "nothing anywhere",
			field:    FieldLocation,
			hostname: "acme.dev",
			html:     `<p>hello</p>`,
			wantOK:   false,
		},
	}

	fe := NewFieldExtractor(nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, "<html><body>"+tt.html+"</body></html>")
			m, ok := fe.Match(tt.field, tt.hostname, doc)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, m.Value)
			assert.Equal(t, tt.wantTier, m.Tier)
		})
	}
}

func TestFieldExtractor_GenericDescriptionFloor(t *testing.T) {
	fe := NewFieldExtractor(nil, 0)
	for _, n := range []int{0, 50, 99, 100, 101, 150, 400} {
		doc := mustParse(t, `<div class="description">`+strings.Repeat("a", n)+`</div>`)
		value, ok := fe.Extract(FieldDescription, "acme.dev", doc)
		if ok {
			assert.Greater(t, len(value), 100, "length %d", n)
		} else {
			assert.LessOrEqual(t, n, 100)
		}
	}
}

func TestFieldExtractor_CustomRuleset(t *testing.T) {
	rules := &Ruleset{
		Site: map[Field][]SelectorRule{
			FieldTitle: {{Site: "acme", Host: HostContains("acme.dev"), Selectors: []string{".role"}}},
		},
		Generic: map[Field][]string{},
	}
	fe := NewFieldExtractor(rules, 10)
	doc := mustParse(t, `<span class="role">Go</span><div class="description">eleven char</div>`)

	title, ok := fe.Extract(FieldTitle, "careers.acme.dev", doc)
	require.True(t, ok)
	assert.Equal(t, "Go", title)

	_, ok = fe.Extract(FieldDescription, "careers.acme.dev", doc)
	assert.False(t, ok)
}

func TestDefaultRuleset_EverySiteHasTitleAndDescription(t *testing.T) {
	rs := DefaultRuleset()
	titled := map[string]bool{}
	for _, r := range rs.Site[FieldTitle] {
		titled[r.Site] = true
	}
	described := map[string]bool{}
	for _, r := range rs.Site[FieldDescription] {
		described[r.Site] = true
	}
	for _, s := range sites {
		assert.True(t, titled[s.name], s.name)
		assert.True(t, described[s.name], s.name)
	}
	for _, f := range Fields {
		assert.NotEmpty(t, rs.Generic[f], f)
	}
}

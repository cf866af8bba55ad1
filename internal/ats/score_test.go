package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobsight/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestKeywords(t *testing.T) {
	kw := Keywords("Experience with C++, C# and Node.js. Go is fun; the team uses AWS.")

	for _, want := range []string{"c++", "node.js", "aws", "fun", "uses"} {
		assert.True(t, kw[want], want)
	}
	for _, absent := range []string{"the", "and", "team", "experience", "go", "c#"} {
		assert.False(t, kw[absent], absent)
	}
}

func TestScore(t *testing.T) {
	job := &models.JobPosting{
		Title:       strPtr("Backend Engineer"),
		Description: strPtr("Backend services in Python on AWS"),
		Skills:      []string{"Python", "AWS", "Docker", "Kubernetes"},
	}

	tests := []struct {
		name         string
		job          *models.JobPosting
		resume       string
		score        float64
		matching     []string
		missingFirst []string
	}{
		{
			name:     "no resume",
			job:      job,
			resume:   "  ",
			score:    0,
			matching: []string{},
		},
		{
			name:     "no job",
			job:      nil,
			resume:   "Python",
			score:    0,
			matching: []string{},
		},
		{
			// skills 2/4, keywords {backend, engineer, services, python, aws} 5/5
			name:         "partial",
			job:          job,
			resume:       "Backend engineer building services with Python and AWS",
			score:        70,
			matching:     []string{"Python", "AWS", "backend", "engineer", "services"},
			missingFirst: []string{"Docker", "Kubernetes"},
		},
		{
			name:     "full",
			job:      job,
			resume:   "Backend engineer: services in Python, AWS, Docker, Kubernetes",
			score:    100,
			matching: []string{"Python", "AWS", "Docker", "Kubernetes", "backend", "engineer", "services"},
		},
		{
			// keywords only: {data, analyst, sql, dashboards} 2/4
			name: "no skills",
			job: &models.JobPosting{
				Title:       strPtr("Data Analyst"),
				Description: strPtr("SQL dashboards"),
			},
			resume:       "I write SQL for data teams",
			score:        50,
			matching:     []string{"data", "sql"},
			missingFirst: []string{"analyst", "dashboards"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(tt.job, tt.resume)
			assert.InDelta(t, tt.score, res.Score, 0.01)
			assert.Equal(t, tt.matching, res.Matching)
			if tt.missingFirst != nil {
				assert.Equal(t, tt.missingFirst, res.Missing[:len(tt.missingFirst)])
			}
			assert.NotNil(t, res.Missing)
		})
	}
}

func TestScore_MissingCapped(t *testing.T) {
	job := &models.JobPosting{
		Title:       strPtr("Engineer"),
		Description: strPtr("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november oscar papa quebec romeo sierra tango uniform victor"),
	}
	res := Score(job, "engineer")
	assert.Len(t, res.Missing, MaxMissing)
	assert.Equal(t, []string{"engineer"}, res.Matching)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalJobURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"job view", "https://www.linkedin.com/jobs/view/3912345678/", "https://www.linkedin.com/jobs/view/3912345678"},
		{"collection panel", "https://www.linkedin.com/jobs/collections/recommended/?currentJobId=3912345678", "https://www.linkedin.com/jobs/view/3912345678"},
		{"search panel", "https://www.linkedin.com/jobs/search/?currentJobId=42&keywords=go", "https://www.linkedin.com/jobs/view/42"},
		{"collection without id", "https://www.linkedin.com/jobs/collections/recommended/", "https://www.linkedin.com/jobs/collections/recommended/"},
		{"profile", "https://www.linkedin.com/in/someone", "https://www.linkedin.com/in/someone"},
		{"other site", "https://www.indeed.com/viewjob?jk=abc", "https://www.indeed.com/viewjob?jk=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalJobURL(tt.in))
		})
	}
}

func TestParseLinkedInURL_Rejects(t *testing.T) {
	_, _, err := ParseLinkedInURL("https://example.com/jobs/view/1")
	assert.Error(t, err)
}

func TestHostnamePreservesCase(t *testing.T) {
	assert.Equal(t, "WWW.Indeed.com", Hostname("https://WWW.Indeed.com:443/viewjob"))
	assert.Equal(t, "", Hostname("://bad"))
}

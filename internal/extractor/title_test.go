package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlausibleTitle_Blocklist(t *testing.T) {
	for _, word := range titleBlocklist {
		t.Run(word, func(t *testing.T) {
			assert.False(t, IsPlausibleTitle("Senior "+word+" lead"))
			assert.False(t, IsPlausibleTitle(strings.ToUpper(word)+" Engineer"))
		})
	}
}

func TestIsPlausibleTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"", false},
		{"QA", false},
		{"SRE", true},
		{"Senior Engineer", true},
		{"Staff Platform Engineer", true},
		// known false negative
		{"Head of Careers Marketing", false},
		{"Sign Up", false},
		{"Über", true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlausibleTitle(tt.title))
		})
	}
}

package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"collapses whitespace", "Build\n\n  APIs\tin Go", 0, "Build APIs in Go"},
		{"strips js notice", "Please enable JavaScript to continue. Senior Engineer", 0, "Senior Engineer"},
		{"strips disabled notice", "JavaScript is disabled in your browser, please keep it enabled. Role", 0, "Role"},
		{"truncates", "abcdefghij", 4, "abcd..."},
		{"fits budget", "abcd", 4, "abcd"},
		{"counts runes", "ééééé", 3, "ééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compact(tt.text, tt.maxChars))
		})
	}
}

func TestCharBudget(t *testing.T) {
	assert.Equal(t, 6144, CharBudget(2048))
}

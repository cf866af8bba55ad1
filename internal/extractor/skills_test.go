package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{name: "empty", description: "", want: []string{}},
		{name: "vocabulary order", description: "Experience with Python and AWS required", want: []string{"Python", "AWS"}},
		{name: "reverse source order", description: "aws then python", want: []string{"Python", "AWS"}},
		{name: "substring collision", description: "JavaScript", want: []string{"JavaScript", "Java"}},
		{name: "ai inside a word", description: "maintain", want: []string{"AI"}},
		{name: "multi-word skill", description: "strong problem solving", want: []string{"Problem Solving"}},
		{name: "symbol skill", description: "C# and .NET", want: []string{"C#"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchSkills(tt.description))
		})
	}
}

func TestSkillVocabulary_IsCopy(t *testing.T) {
	v := SkillVocabulary()
	v[0] = "COBOL"
	assert.Equal(t, "JavaScript", skillVocabulary[0])
}

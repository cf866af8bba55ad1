package extractor

import "strings"

// skillVocabulary is matched in this order
var skillVocabulary = []string{
	"JavaScript",
	"Python",
	"Java",
	"React",
	"Node.js",
	"SQL",
	"AWS",
	"Docker",
	"Kubernetes",
	"Git",
	"HTML",
	"CSS",
	"TypeScript",
	"Angular",
	"Vue",
	"MongoDB",
	"PostgreSQL",
	"Redis",
	"GraphQL",
	"REST",
	"API",
	"Machine Learning",
	"AI",
	"Data Analysis",
	"Project Management",
	"Agile",
	"Scrum",
	"Leadership",
	"Communication",
	"Problem Solving",
	"C#",
}

// SkillVocabulary returns a copy of the matched vocabulary
func SkillVocabulary() []string {
	out := make([]string, len(skillVocabulary))
	copy(out, skillVocabulary)
	return out
}

// MatchSkills returns vocabulary terms found in description as
// case-insensitive substrings, in vocabulary order. Collisions such as
// "Java" inside "JavaScript" or "AI" inside "maintain" are kept.
func MatchSkills(description string) []string {
	skills := []string{}
	if description == "" {
		return skills
	}
	lower := strings.ToLower(description)
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}

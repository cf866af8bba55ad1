// Package ats scores a resume against a job posting without calling a model.
package ats

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"jobsight/pkg/models"
)

// MaxMissing caps the missing keyword list
const MaxMissing = 20

// skillWeight is the share of the score given to extracted skills when the
// posting has any
const skillWeight = 0.6

var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
	"years": true, "experience": true, "strong": true, "must": true,
}

// Result is the outcome of one scoring pass
type Result struct {
	Score    float64
	Matching []string
	Missing  []string
}

// Keywords tokenizes text into lower-cased keywords of three or more runes,
// skipping stop words. + # and . count as word characters so c++, c# and
// node.js survive.
func Keywords(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !stopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}

// Score rates resume against job on 0-100, rounded to one decimal.
//
// Keyword coverage is the share of the posting's keywords found in the
// resume. When the posting lists skills, the score blends skill coverage
// (60%) with keyword coverage (40%). Missing skills lead the missing list,
// followed by missing keywords in alphabetical order.
func Score(job *models.JobPosting, resume string) Result {
	res := Result{Matching: []string{}, Missing: []string{}}
	if job == nil || strings.TrimSpace(resume) == "" {
		return res
	}

	resumeKW := Keywords(resume)
	jobKW := Keywords(jobText(job))

	var matchingKW, missingKW []string
	for kw := range jobKW {
		if resumeKW[kw] {
			matchingKW = append(matchingKW, kw)
		} else {
			missingKW = append(missingKW, kw)
		}
	}
	sort.Strings(matchingKW)
	sort.Strings(missingKW)

	coverage := 0.0
	if len(jobKW) > 0 {
		coverage = float64(len(matchingKW)) / float64(len(jobKW))
	}

	lowerResume := strings.ToLower(resume)
	var matchedSkills, missingSkills []string
	for _, skill := range job.Skills {
		if strings.Contains(lowerResume, strings.ToLower(skill)) {
			matchedSkills = append(matchedSkills, skill)
		} else {
			missingSkills = append(missingSkills, skill)
		}
	}

	raw := coverage
	if len(job.Skills) > 0 {
		skillCoverage := float64(len(matchedSkills)) / float64(len(job.Skills))
		raw = skillWeight*skillCoverage + (1-skillWeight)*coverage
	}
	res.Score = math.Round(raw*1000) / 10

	res.Matching = appendUnique(res.Matching, matchedSkills...)
	res.Matching = appendUnique(res.Matching, matchingKW...)
	res.Missing = appendUnique(res.Missing, missingSkills...)
	res.Missing = appendUnique(res.Missing, missingKW...)
	if len(res.Missing) > MaxMissing {
		res.Missing = res.Missing[:MaxMissing]
	}
	return res
}

func jobText(job *models.JobPosting) string {
	parts := []string{job.TitleOrEmpty(), job.DescriptionOrEmpty()}
	parts = append(parts, job.Requirements...)
	return strings.Join(parts, "\n")
}

// appendUnique appends values whose lower-cased form is not yet in dst
func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[strings.ToLower(v)] = true
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		dst = append(dst, v)
	}
	return dst
}

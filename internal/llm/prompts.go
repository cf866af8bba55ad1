package llm

import (
	"fmt"
	"strings"

	"jobsight/internal/llm/processors"
	"jobsight/pkg/models"
	"jobsight/pkg/utils"
)

// BuildPrompt renders the prompt for step. resume overrides the resume kept
// in settings; the optimize step needs one of them.
func BuildPrompt(step Step, job *models.JobPosting, s models.Settings, resume string, budget int) (string, error) {
	if job == nil || !job.IsValid() {
		return "", utils.NewBadRequestError("no job posting to work with")
	}
	if resume == "" {
		resume = s.Resume
	}
	tone := utils.GetStringOrDefault(s.Tone, "professional")

	var b strings.Builder
	switch step {
	case StepAnalyze:
		b.WriteString("You are a career coach. Analyze the job posting below for the candidate. ")
		b.WriteString("List the core responsibilities, the must-have qualifications, any red flags, ")
		b.WriteString("and how well the candidate fits. Keep it under 250 words.\n\n")
	case StepOptimize:
		if strings.TrimSpace(resume) == "" {
			return "", utils.NewBadRequestError("a resume is required to optimize")
		}
		b.WriteString("You are a resume writer. Rewrite the candidate's resume so it targets the job posting below. ")
		b.WriteString("Keep every fact truthful, reorder and reword for relevance, and mirror the posting's keywords ")
		b.WriteString("where the experience supports them. Return only the resume text.\n\n")
	case StepCoverLetter:
		fmt.Fprintf(&b, "You are a cover letter writer. Write a %s cover letter from the candidate for the job posting below. ", tone)
		b.WriteString("Three short paragraphs, no placeholders, signed with the candidate's name. Return only the letter.\n\n")
	default:
		return "", utils.NewBadRequestError(fmt.Sprintf("unknown assistant step: %s", step))
	}

	writeJob(&b, job, budget)
	writeCandidate(&b, s.Profile, resume, budget)
	return b.String(), nil
}

func writeJob(b *strings.Builder, job *models.JobPosting, budget int) {
	b.WriteString("JOB POSTING\n")
	fmt.Fprintf(b, "Title: %s\n", job.TitleOrEmpty())
	if c := job.CompanyOrEmpty(); c != "" {
		fmt.Fprintf(b, "Company: %s\n", c)
	}
	if l := job.LocationOrEmpty(); l != "" {
		fmt.Fprintf(b, "Location: %s\n", l)
	}
	if len(job.Skills) > 0 {
		fmt.Fprintf(b, "Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	for _, r := range job.Requirements {
		fmt.Fprintf(b, "Requirement: %s\n", r)
	}
	fmt.Fprintf(b, "Description: %s\n\n", processors.Compact(job.DescriptionOrEmpty(), budget/2))
}

func writeCandidate(b *strings.Builder, p models.Profile, resume string, budget int) {
	b.WriteString("CANDIDATE\n")
	if p.FullName != "" {
		fmt.Fprintf(b, "Name: %s\n", p.FullName)
	}
	if p.Headline != "" {
		fmt.Fprintf(b, "Headline: %s\n", p.Headline)
	}
	if p.Summary != "" {
		fmt.Fprintf(b, "Summary: %s\n", p.Summary)
	}
	if resume != "" {
		fmt.Fprintf(b, "Resume:\n%s\n", processors.Compact(resume, budget/2))
	}
}

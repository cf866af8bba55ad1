package models

import "time"

// JobPosting is the normalized record produced by one extraction pass.
// A nil field means the extractor found no accepted match for it.
type JobPosting struct {
	Title        *string   `json:"title"`
	Company      *string   `json:"company"`
	Location     *string   `json:"location"`
	Description  *string   `json:"description"`
	Requirements []string  `json:"requirements"`
	Skills       []string  `json:"skills"`
	SourceURL    string    `json:"source_url"`
	ExtractedAt  time.Time `json:"extracted_at"`
}

// IsValid reports whether the posting may be emitted downstream:
// both title and description must be present and non-empty.
func (j *JobPosting) IsValid() bool {
	if j == nil {
		return false
	}
	return j.Title != nil && *j.Title != "" && j.Description != nil && *j.Description != ""
}

// TitleOrEmpty returns the title or "" when it was not extracted.
func (j *JobPosting) TitleOrEmpty() string {
	return deref(j.Title)
}

// CompanyOrEmpty returns the company or "" when it was not extracted.
func (j *JobPosting) CompanyOrEmpty() string {
	return deref(j.Company)
}

// LocationOrEmpty returns the location or "" when it was not extracted.
func (j *JobPosting) LocationOrEmpty() string {
	return deref(j.Location)
}

// DescriptionOrEmpty returns the description or "" when it was not extracted.
func (j *JobPosting) DescriptionOrEmpty() string {
	return deref(j.Description)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PageState is the answer to a "get current job data" query: the outcome of
// the last completed extraction pass.
type PageState struct {
	IsJobPage bool        `json:"is_job_page"`
	JobData   *JobPosting `json:"job_data"`
	ScannedAt time.Time   `json:"scanned_at,omitempty"`
}

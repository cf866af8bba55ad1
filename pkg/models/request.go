package models

// ExtractRequest carries an already captured page for extraction.
type ExtractRequest struct {
	URL  string `json:"url" validate:"required,url"`
	HTML string `json:"html" validate:"required"`
}

// ScanRequest asks the service to load a live page and extract from it.
type ScanRequest struct {
	URL    string `json:"url" validate:"required,url"`
	Engine string `json:"engine,omitempty" validate:"omitempty,oneof=rod firecrawl"`
}

// WatchRequest opens a watch session on a live page.
type WatchRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// AssistRequest is shared by the AI assistant endpoints. When Job is nil the
// last extracted posting is used.
type AssistRequest struct {
	Job    *JobPosting `json:"job,omitempty"`
	Resume string      `json:"resume,omitempty"`
}

// ExportRequest renders generated text into a downloadable document.
type ExportRequest struct {
	Kind    string      `json:"kind" validate:"required,oneof=resume cover_letter"`
	Content string      `json:"content" validate:"required"`
	Format  string      `json:"format,omitempty" validate:"omitempty,oneof=html markdown"`
	Job     *JobPosting `json:"job,omitempty"`
}

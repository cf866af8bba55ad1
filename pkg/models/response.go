package models

import "time"

// ScanResponse wraps the state produced by an extraction request
type ScanResponse struct {
	Success        bool          `json:"success"`
	State          PageState     `json:"state"`
	Engine         string        `json:"engine_used,omitempty"`
	ProcessingTime time.Duration `json:"processing_time"`
	RequestID      string        `json:"request_id"`
}

// AssistResponse carries the text returned by one assistant step
type AssistResponse struct {
	Success   bool   `json:"success"`
	Step      string `json:"step"`
	Content   string `json:"content"`
	Provider  string `json:"provider"`
	RequestID string `json:"request_id"`
}

// ScoreResponse is the local ATS heuristic result
type ScoreResponse struct {
	Score     float64  `json:"score"`
	Matching  []string `json:"matching"`
	Missing   []string `json:"missing"`
	RequestID string   `json:"request_id"`
}

// WatchSession describes an active watch on a live page
type WatchSession struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	StartedAt  time.Time `json:"started_at"`
	LastActive time.Time `json:"last_active"`
	Rescans    int64     `json:"rescans"`
	State      PageState `json:"state"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

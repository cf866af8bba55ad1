package models

import "time"

// Profile is the applicant data sent along with job text to the assistant.
type Profile struct {
	FullName string `json:"full_name" yaml:"full_name" validate:"omitempty,max=120"`
	Email    string `json:"email" yaml:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" yaml:"phone" validate:"omitempty,max=40"`
	Headline string `json:"headline" yaml:"headline" validate:"omitempty,max=200"`
	Summary  string `json:"summary" yaml:"summary"`
}

// Settings is the structured settings object kept by the settings store.
type Settings struct {
	Profile     Profile   `json:"profile" validate:"required"`
	Resume      string    `json:"resume"`
	Model       string    `json:"model" validate:"omitempty,model_name"`
	Tone        string    `json:"tone" validate:"omitempty,oneof=professional friendly concise enthusiastic"`
	AutoAnalyze bool      `json:"auto_analyze"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() Settings {
	return Settings{
		Tone: "professional",
	}
}

package models

import "time"

// Enums

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one end-to-end story-to-video request tracked by the registry.
// The registry owns the canonical copy; everything handed out is a snapshot.
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	TextPreview string     `json:"text"`     // truncated source text, for history display
	Style       string     `json:"style"`
	VideoURL    *string    `json:"video_url,omitempty"` // set only on completion
	Error       *string    `json:"error,omitempty"`     // set only on failure
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Voice describes one synthesis voice offered by the configured TTS provider.
type Voice struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Locale      string `json:"locale,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// DTOs for API requests and responses

type GenerateRequest struct {
	Text               string `json:"text"`
	Style              string `json:"style"`
	Voice              string `json:"voice"`
	UseTransitions     *bool  `json:"use_transitions,omitempty"`      // default true
	AddBackgroundMusic bool   `json:"add_background_music,omitempty"` // default false
}

type GenerateResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

type StatusResponse struct {
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	VideoURL *string   `json:"video_url,omitempty"`
	Error    *string   `json:"error,omitempty"`
}

// JobSummary is a lightweight DTO for the history endpoint: just what
// the UI lists, without progress detail.
type JobSummary struct {
	JobID       string     `json:"job_id"`
	Text        string     `json:"text"`
	Style       string     `json:"style"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

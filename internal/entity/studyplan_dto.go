package entity

import "time"

// GenerateStudyPlanRequest is the body of POST /api/v1/study-plans
type GenerateStudyPlanRequest struct {
	Surah string `json:"surah"`
	Ayah  string `json:"ayah"`
}

// StudyPlanResponse wraps a generated plan with its request metadata
type StudyPlanResponse struct {
	ID          string     `json:"id"`
	Surah       string     `json:"surah"`
	Ayah        string     `json:"ayah"`
	GeneratedAt time.Time  `json:"generated_at"`
	Sections    []string   `json:"sections"`
	Plan        *StudyPlan `json:"plan"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

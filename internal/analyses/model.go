package analyses

import (
	"errors"
	"time"

	"resume-builder/internal/ai"
)

var (
	ErrNotFound     = errors.New("analysis not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Analysis is one stored ATS analysis. Providers holds the raw result of
// every configured provider, null for the ones that failed. Analyses are
// append-only.
type Analysis struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	ResumeID       string                `json:"resume_id"`
	JobDescription string                `json:"job_description"`
	Score          int                   `json:"score"`
	Feedback       string                `json:"feedback"`
	Strengths      []string              `json:"strengths"`
	Improvements   []string              `json:"improvements"`
	Providers      map[string]*ai.Result `json:"providers"`
	CreatedAt      time.Time             `json:"created_at"`
}

// Stats summarizes a user's analyses. AverageScore is nil when there are none.
type Stats struct {
	Count        int
	AverageScore *float64
}

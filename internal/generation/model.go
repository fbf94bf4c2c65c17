package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/ai"
	"resume-builder/internal/resumes"
)

var (
	// ErrInvalidBatch covers an empty or oversized batch, unknown or repeated profile ids.
	ErrInvalidBatch = errors.New("invalid batch")
	// ErrResumeCap is the free-tier stored resume ceiling.
	ErrResumeCap = resumes.ErrResumeCap
)

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Base is the profile data shared by every task of a batch.
type Base struct {
	PersonalInfo PersonalInfo              `json:"personal_info"`
	SummaryBase  string                    `json:"summary_base"`
	Experience   []resumes.ExperienceEntry `json:"experience"`
	Education    []resumes.EducationEntry  `json:"education"`
	SkillsBase   string                    `json:"skills_base"`
}

// Request is one batchGenerate call.
type Request struct {
	Base
	ProfileIDs []string `json:"job_profiles"`
	Template   string   `json:"template"`
}

// Task is one profile of a batch. Tasks share Base read-only.
type Task struct {
	Profile JobProfile
	Base    Base
	Prompt  ai.Prompt
}

// Generated is the content one provider produced for one profile.
type Generated struct {
	Summary    string                    `json:"summary"`
	Experience []resumes.ExperienceEntry `json:"experience"`
	Skills     Skills                    `json:"skills"`
}

// Skills accepts either a string or a list of strings and keeps a single line.
type Skills string

func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*s = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*s = Skills(strings.Join(list, ", "))
		return nil
	default:
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return fmt.Errorf("skills must be a string or a list of strings: %w", err)
		}
		*s = Skills(str)
		return nil
	}
}

// DecodeGenerated parses a provider reply. A reply without a summary is rejected
// so the next provider gets a chance.
func DecodeGenerated(raw string) (Generated, error) {
	var g Generated
	if err := ai.DecodeJSON(raw, &g); err != nil {
		return Generated{}, err
	}
	g.Summary = strings.TrimSpace(g.Summary)
	if g.Summary == "" {
		return Generated{}, &ai.ParseError{Raw: raw, Err: errors.New("missing summary")}
	}
	return g, nil
}

// Outcome is the result of one task: a generated resume or a failure.
type Outcome struct {
	ProfileID string
	Content   *Generated
	Provider  string
	Err       error
}

func (o Outcome) OK() bool { return o.Content != nil }

// Stats summarizes a batch. Successful + Failed always equals TotalRequested.
type Stats struct {
	TotalRequested int               `json:"total_requested"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	FailedProfiles []string          `json:"failed_profiles"`
	Providers      map[string]string `json:"providers"`
}

// BatchResult is returned to the caller. Resumes holds the persisted successes
// in request order.
type BatchResult struct {
	Resumes []resumes.Resume `json:"resumes"`
	Stats   Stats            `json:"generation_stats"`
}

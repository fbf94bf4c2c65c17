package resumes

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrResumeCap is returned when a free-tier user would exceed the stored resume ceiling.
	ErrResumeCap = errors.New("resume cap reached")
)

type Template string

const (
	TemplateModern   Template = "modern"
	TemplateClassic  Template = "classic"
	TemplateCreative Template = "creative"
	TemplateMinimal  Template = "minimal"
)

// ParseTemplate maps an empty value to modern and rejects unknown templates.
func ParseTemplate(raw string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return TemplateModern, nil
	case TemplateModern, TemplateClassic, TemplateCreative, TemplateMinimal:
		return t, nil
	default:
		return "", ErrInvalidInput
	}
}

// Resume is a user's resume document. JobProfile and Provider are set on
// resumes produced by batch generation.
type Resume struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Template   Template  `json:"template"`
	Sections   []Section `json:"sections"`
	JobProfile string    `json:"job_profile,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	SourceKey  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Section returns the first section of the given type.
func (r Resume) Section(sectionType string) (Section, bool) {
	for _, s := range r.Sections {
		if strings.EqualFold(s.Type, sectionType) {
			return s, true
		}
	}
	return Section{}, false
}

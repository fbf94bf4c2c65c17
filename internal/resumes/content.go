package resumes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Section types with a structured content shape. Other types are accepted and
// carry Text or KeyValue content.
const (
	SectionPersonal   = "personal"
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
)

// ErrInvalidContent is returned when a section's content has an unsupported JSON shape.
var ErrInvalidContent = errors.New("unsupported section content")

// Content is the closed set of section payloads: Text, KeyValue, Experience or Education.
type Content interface {
	content()
	// Render returns the plain-text form used for ATS input.
	Render() string
}

type Text string

type KeyValue map[string]string

type ExperienceEntry struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Details     string `json:"details"`
}

type Experience []ExperienceEntry

type Education []EducationEntry

func (Text) content()       {}
func (KeyValue) content()   {}
func (Experience) content() {}
func (Education) content()  {}

func (t Text) Render() string { return strings.TrimSpace(string(t)) }

var keyValueOrder = []string{"name", "email", "phone", "location"}

func (kv KeyValue) Render() string {
	seen := make(map[string]bool, len(kv))
	var lines []string
	for _, key := range keyValueOrder {
		if v := strings.TrimSpace(kv[key]); v != "" {
			lines = append(lines, key+": "+v)
		}
		seen[key] = true
	}
	rest := make([]string, 0, len(kv))
	for key := range kv {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if v := strings.TrimSpace(kv[key]); v != "" {
			lines = append(lines, key+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

func (e Experience) Render() string {
	blocks := make([]string, 0, len(e))
	for _, entry := range e {
		head := joinNonEmpty(" at ", entry.Position, entry.Company)
		if d := strings.TrimSpace(entry.Duration); d != "" {
			head = joinNonEmpty(" ", head, "("+d+")")
		}
		blocks = append(blocks, joinNonEmpty("\n", head, entry.Description))
	}
	return strings.Join(blocks, "\n\n")
}

func (e Education) Render() string {
	blocks := make([]string, 0, len(e))
	for _, entry := range e {
		head := joinNonEmpty(", ", entry.Degree, entry.Institution)
		if y := strings.TrimSpace(entry.Year); y != "" {
			head = joinNonEmpty(" ", head, "("+y+")")
		}
		blocks = append(blocks, joinNonEmpty("\n", head, entry.Details))
	}
	return strings.Join(blocks, "\n\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// Section is one typed block of a resume.
type Section struct {
	Type    string  `json:"type"`
	Content Content `json:"content"`
}

type sectionJSON struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	content := s.Content
	if content == nil {
		content = Text("")
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionJSON{Type: s.Type, Content: raw})
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := DecodeContent(raw.Type, raw.Content)
	if err != nil {
		return fmt.Errorf("section %q: %w", raw.Type, err)
	}
	s.Type = raw.Type
	s.Content = content
	return nil
}

// DecodeContent picks the Content variant from the JSON shape and, for
// arrays, the section type or the entry fields.
func DecodeContent(sectionType string, raw json.RawMessage) (Content, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Text(""), nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	case '{':
		return decodeKeyValue(trimmed)
	case '[':
		return decodeEntries(strings.ToLower(sectionType), trimmed)
	default:
		return nil, ErrInvalidContent
	}
}

func decodeKeyValue(raw []byte) (Content, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	kv := make(KeyValue, len(fields))
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
		case string:
			kv[key] = v
		case float64:
			kv[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			kv[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("%w: field %q is not a scalar", ErrInvalidContent, key)
		}
	}
	return kv, nil
}

func decodeEntries(sectionType string, raw []byte) (Content, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: list entries must be objects", ErrInvalidContent)
	}
	kind := sectionType
	if kind != SectionExperience && kind != SectionEducation {
		kind = SectionExperience
		for _, item := range items {
			if _, ok := item["degree"]; ok {
				kind = SectionEducation
				break
			}
			if _, ok := item["institution"]; ok {
				kind = SectionEducation
				break
			}
		}
	}
	if kind == SectionEducation {
		var entries Education
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return entries, nil
	}
	var entries Experience
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return entries, nil
}

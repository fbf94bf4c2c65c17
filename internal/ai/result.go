package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Result is the structured reply of one provider for an ATS analysis.
// Score is nil when the provider did not return one.
type Result struct {
	Score        *int     `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// UnmarshalJSON accepts the score as an integral JSON number (85 or 85.0)
// or a string holding one ("85"). Anything else is an error.
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	var aux struct {
		plain
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	score, err := decodeScore(aux.Score)
	if err != nil {
		return err
	}
	*r = Result(aux.plain)
	r.Score = score
	return nil
}

func decodeScore(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var num json.Number
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		num = json.Number(strings.TrimSpace(s))
	} else if err := json.Unmarshal(raw, &num); err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	f, err := num.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("score %s is not a number", raw)
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("score %s is not a whole number", raw)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return nil, fmt.Errorf("score %s out of range", raw)
	}
	v := int(f)
	return &v, nil
}

// Narrative is the text part of an analysis.
type Narrative struct {
	Feedback     string
	Strengths    []string
	Improvements []string
}

// DefaultFallbackNarrative is served when no provider produced a result.
func DefaultFallbackNarrative() Narrative {
	return Narrative{
		Feedback:     "Your resume has been analyzed. Consider tailoring it more to the job description.",
		Strengths:    []string{"Clear structure", "Professional formatting"},
		Improvements: []string{"Add more relevant keywords", "Quantify achievements"},
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

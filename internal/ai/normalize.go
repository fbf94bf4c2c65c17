package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxRawInError = 512

// StripFence removes exactly one markdown code fence, tagged (```json) or
// untagged (```), from s, keeping the text up to the closing fence. Text
// without a fence is returned trimmed.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s[3:]
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		// single line fence: ```{...}```
		body = strings.TrimPrefix(body, "json")
	} else {
		tag := strings.TrimSpace(body[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			body = body[nl+1:]
		}
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// DecodeJSON strips a code fence from raw and strictly decodes the single JSON
// object that remains into v. Any failure is a *ParseError.
func DecodeJSON(raw string, v any) error {
	body := StripFence(raw)
	if body == "" {
		return &ParseError{Raw: clip(raw), Err: ErrEmptyResponse}
	}
	if !strings.HasPrefix(body, "{") {
		return &ParseError{Raw: clip(raw), Err: errors.New("expected a JSON object")}
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(v); err != nil {
		return &ParseError{Raw: clip(raw), Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &ParseError{Raw: clip(raw), Err: errors.New("trailing data after JSON object")}
	}
	return nil
}

// Normalize parses a raw ATS reply into a Result.
func Normalize(raw string) (Result, error) {
	var res Result
	if err := DecodeJSON(raw, &res); err != nil {
		return Result{}, err
	}
	if res.Score != nil && (*res.Score < 0 || *res.Score > 100) {
		return Result{}, &ParseError{Raw: clip(raw), Err: fmt.Errorf("score %d out of range", *res.Score)}
	}
	res.Feedback = strings.TrimSpace(res.Feedback)
	res.Strengths = cleanList(res.Strengths)
	res.Improvements = cleanList(res.Improvements)
	return res, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clip(s string) string {
	if len(s) <= maxRawInError {
		return s
	}
	return s[:maxRawInError]
}

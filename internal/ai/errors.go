package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("empty provider response")

// ProviderError reports a failed call to a single provider. It wraps the
// transport, status or parse failure that caused it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports provider output that is not the expected JSON document.
// It always reaches callers wrapped in a ProviderError.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse provider output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func asProviderError(name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: name, Err: err}
}

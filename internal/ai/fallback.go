package ai

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoProviders is returned when an ordered call has nothing to try.
var ErrNoProviders = errors.New("no providers configured")

// FirstSuccess tries providers in order and returns the first reply that
// decodes, with the name of the provider that produced it. The next provider
// is only called after the previous one failed. When all fail the joined
// provider errors are returned.
func FirstSuccess[T any](ctx context.Context, providers []Provider, prompt Prompt, decode func(string) (T, error), logger *zap.Logger) (T, string, error) {
	var zero T
	if len(providers) == 0 {
		return zero, "", ErrNoProviders
	}

	var errs []error
	for _, p := range providers {
		raw, err := Complete(ctx, p, prompt, logger)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v, err := decode(raw)
		if err != nil {
			errs = append(errs, asProviderError(p.Name(), err))
			continue
		}
		return v, p.Name(), nil
	}
	return zero, "", errors.Join(errs...)
}

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Prompt is the input of one provider call.
type Prompt struct {
	System string
	User   string
	// ModelHint overrides the adapter's configured model when set.
	ModelHint string
}

// Provider is one external text-generation backend. Implementations own their
// transport configuration and never retry.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Complete calls p and returns its raw text. Failures are *ProviderError.
func Complete(ctx context.Context, p Provider, prompt Prompt, logger *zap.Logger) (string, error) {
	name := p.Name()
	log := telemetry.WithAI(logger, name, prompt.ModelHint)

	start := time.Now()
	raw, err := callSafely(ctx, p, prompt)
	elapsed := time.Since(start)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = ErrEmptyResponse
	}
	metrics.ObserveProviderCall(name, err == nil, float64(elapsed.Milliseconds()))
	if err != nil {
		log.Warn("ai provider call failed", zap.Duration("latency", elapsed), zap.Error(err))
		return "", asProviderError(name, err)
	}
	log.Debug("ai provider call complete", zap.Duration("latency", elapsed), zap.Int("response_length", len(raw)))
	return raw, nil
}

// Generate runs one ATS provider call and normalizes its reply.
func Generate(ctx context.Context, p Provider, prompt Prompt, logger *zap.Logger) (Result, error) {
	raw, err := Complete(ctx, p, prompt, logger)
	if err != nil {
		return Result{}, err
	}
	res, err := Normalize(raw)
	if err != nil {
		telemetry.WithAI(logger, p.Name(), prompt.ModelHint).Warn("ai provider output rejected", zap.Error(err))
		return Result{}, asProviderError(p.Name(), err)
	}
	return res, nil
}

func callSafely(ctx context.Context, p Provider, prompt Prompt) (raw string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("provider panic: %v", rec)
		}
	}()
	return p.Complete(ctx, prompt)
}

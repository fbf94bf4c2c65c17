package telemetry

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// AIFields returns the fields describing an AI provider call.
// Empty values are omitted.
func AIFields(provider, model string) []zap.Field {
	out := make([]zap.Field, 0, 2)
	if p := strings.TrimSpace(provider); p != "" {
		out = append(out, zap.String(FieldProvider, p))
	}
	if m := strings.TrimSpace(model); m != "" {
		out = append(out, zap.String(FieldModel, m))
	}
	return out
}

// WithAI attaches the provider fields to l, defaulting to a no-op logger.
func WithAI(l *zap.Logger, provider, model string) *zap.Logger {
	return OrNop(l).With(AIFields(provider, model)...)
}

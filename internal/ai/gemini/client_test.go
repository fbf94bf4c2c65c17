package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"resume-builder/internal/ai"
)

type fakeModels struct {
	calls  int
	model  string
	config *genai.GenerateContentConfig
	text   string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.text = contents[0].Parts[0].Text
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline on the call context")
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestCompleteJoinsTextParts(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"score":`, "", `70}`)}
	client := newClient(models, Config{Temperature: 0.2, MaxTokens: 512})

	out, err := client.Complete(context.Background(), ai.Prompt{System: "be strict", User: "score this"})

	require.NoError(t, err)
	assert.Equal(t, "{\"score\":\n70}", out)
	assert.Equal(t, defaultModel, models.model)
	assert.Equal(t, "score this", models.text)
	require.NotNil(t, models.config.SystemInstruction)
	assert.Equal(t, "be strict", models.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(512), models.config.MaxOutputTokens)
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
}

func TestCompleteUsesModelHint(t *testing.T) {
	models := &fakeModels{resp: textResponse("{}")}
	client := newClient(models, Config{Model: "gemini-2.5-pro"})

	_, err := client.Complete(context.Background(), ai.Prompt{User: "x", ModelHint: "gemini-2.0-flash-lite"})

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash-lite", models.model)
}

func TestCompleteErrors(t *testing.T) {
	tests := map[string]*fakeModels{
		"transport": {err: errors.New("quota exceeded")},
		"nil":       {},
		"empty":     {resp: textResponse("  ")},
	}
	for name, models := range tests {
		t.Run(name, func(t *testing.T) {
			client := newClient(models, Config{})
			_, err := client.Complete(context.Background(), ai.Prompt{User: "x"})
			require.Error(t, err)
			assert.Equal(t, 1, models.calls, "adapter must not retry")
		})
	}
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{}
	_, err := newClient(models, Config{}).Complete(context.Background(), ai.Prompt{User: "  "})
	require.Error(t, err)
	assert.Zero(t, models.calls)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.Error(t, err)
}

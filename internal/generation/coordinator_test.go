package generation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/ai"
)

func tasksFor(t *testing.T, ids ...string) []Task {
	t.Helper()
	base := sampleBase()
	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		profile, ok := LookupProfile(id)
		require.True(t, ok, id)
		tasks = append(tasks, Task{Profile: profile, Base: base, Prompt: BuildPrompt(base, profile)})
	}
	return tasks
}

func TestRunKeepsTaskOrderRegardlessOfCompletion(t *testing.T) {
	primary := &scriptedProvider{name: ai.ProviderOpenAI, delay: func(p ai.Prompt) time.Duration {
		if strings.Contains(p.User, "role: Software Engineer\n") {
			return 30 * time.Millisecond
		}
		return 0
	}}
	c := NewCoordinator([]ai.Provider{primary}, 5, nil)

	out := c.Run(context.Background(), tasksFor(t, "software-engineer", "data-analyst", "ux-designer"))

	require.Len(t, out, 3)
	assert.Equal(t, "software-engineer", out[0].ProfileID)
	assert.Equal(t, "data-analyst", out[1].ProfileID)
	assert.Equal(t, "ux-designer", out[2].ProfileID)
	for _, oc := range out {
		assert.True(t, oc.OK())
	}
}

func TestRunCallsSecondaryOnlyAfterPrimaryFails(t *testing.T) {
	primary := &scriptedProvider{name: ai.ProviderOpenAI, failFor: []string{"Data Analyst"}}
	secondary := &scriptedProvider{name: ai.ProviderGemini}
	c := NewCoordinator([]ai.Provider{primary, secondary}, 5, nil)

	out := c.Run(context.Background(), tasksFor(t, "software-engineer", "data-analyst"))

	assert.Equal(t, ai.ProviderOpenAI, out[0].Provider)
	assert.Equal(t, ai.ProviderGemini, out[1].Provider)
	assert.Equal(t, "Tailored by gemini", out[1].Content.Summary)
	assert.EqualValues(t, 2, primary.calls.Load())
	assert.EqualValues(t, 1, secondary.calls.Load())
}

func TestRunExhaustedTaskDoesNotAbortSiblings(t *testing.T) {
	primary := &scriptedProvider{name: ai.ProviderOpenAI, failFor: []string{"UX Designer"}}
	secondary := &scriptedProvider{name: ai.ProviderGemini, failFor: []string{"UX Designer"}}
	c := NewCoordinator([]ai.Provider{primary, secondary}, 1, nil)

	out := c.Run(context.Background(), tasksFor(t, "ux-designer", "backend-developer"))

	assert.False(t, out[0].OK())
	assert.Error(t, out[0].Err)
	var pe *ai.ProviderError
	assert.ErrorAs(t, out[0].Err, &pe)
	assert.True(t, out[1].OK())
}

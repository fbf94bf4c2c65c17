package generation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resume-builder/internal/ai"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

const DefaultConcurrency = 5

// Coordinator runs generation tasks concurrently. Each task tries the
// providers in order and stops at the first usable reply; a task that
// exhausts them becomes a failed outcome without affecting its siblings.
type Coordinator struct {
	Providers   []ai.Provider
	Concurrency int
	Logger      *zap.Logger
}

func NewCoordinator(providers []ai.Provider, concurrency int, logger *zap.Logger) *Coordinator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Coordinator{Providers: providers, Concurrency: concurrency, Logger: telemetry.OrNop(logger)}
}

type indexedOutcome struct {
	idx     int
	outcome Outcome
}

// Run returns one outcome per task, in task order, whatever the completion order.
func (c *Coordinator) Run(ctx context.Context, tasks []Task) []Outcome {
	results := make(chan indexedOutcome, len(tasks))

	// Tasks never return an error so the group never cancels siblings.
	var g errgroup.Group
	g.SetLimit(c.Concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			results <- indexedOutcome{idx: i, outcome: c.runTask(ctx, task)}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	out := make([]Outcome, len(tasks))
	for r := range results {
		out[r.idx] = r.outcome
	}
	return out
}

func (c *Coordinator) runTask(ctx context.Context, task Task) Outcome {
	started := time.Now()
	content, provider, err := ai.FirstSuccess(ctx, c.Providers, task.Prompt, DecodeGenerated, c.Logger)
	metrics.IncBatchProfile(err == nil)
	if err != nil {
		c.Logger.Warn("profile generation failed",
			zap.String("profile", task.Profile.ID),
			zap.Int64("duration_ms", time.Since(started).Milliseconds()),
			zap.Error(err),
		)
		return Outcome{ProfileID: task.Profile.ID, Err: err}
	}
	c.Logger.Debug("profile generated",
		zap.String("profile", task.Profile.ID),
		zap.String(telemetry.FieldProvider, provider),
		zap.Int64("duration_ms", time.Since(started).Milliseconds()),
	)
	return Outcome{ProfileID: task.Profile.ID, Content: &content, Provider: provider}
}

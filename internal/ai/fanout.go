package ai

import (
	"context"

	"go.uber.org/zap"
)

// Outcome is the result of one provider in a fan-out round. Exactly one of
// Result and Err is set.
type Outcome struct {
	Provider string
	Result   *Result
	Err      error
}

// OK reports whether the provider produced a result.
func (o Outcome) OK() bool { return o.Result != nil }

// Outcomes holds one entry per provider, in the order providers were given.
type Outcomes []Outcome

// Map returns the per-provider results keyed by provider name; failed
// providers map to nil.
func (o Outcomes) Map() map[string]*Result {
	out := make(map[string]*Result, len(o))
	for _, oc := range o {
		out[oc.Provider] = oc.Result
	}
	return out
}

// Succeeded counts providers that produced a result.
func (o Outcomes) Succeeded() int {
	n := 0
	for _, oc := range o {
		if oc.OK() {
			n++
		}
	}
	return n
}

type indexedOutcome struct {
	idx int
	out Outcome
}

// FanOut sends the same prompt to every provider concurrently and waits for
// all of them. A failing provider never cancels its siblings and FanOut never
// returns an error; failures are recorded in the matching Outcome.
func FanOut(ctx context.Context, providers []Provider, prompt Prompt, logger *zap.Logger) Outcomes {
	results := make(chan indexedOutcome, len(providers))
	for i, p := range providers {
		go func(idx int, p Provider) {
			res, err := Generate(ctx, p, prompt, logger)
			oc := Outcome{Provider: p.Name(), Err: err}
			if err == nil {
				oc.Result = &res
			}
			results <- indexedOutcome{idx: idx, out: oc}
		}(i, p)
	}

	outcomes := make(Outcomes, len(providers))
	for range providers {
		r := <-results
		outcomes[r.idx] = r.out
	}
	return outcomes
}

package ai

import "math"

// DefaultFallbackScore is used when no provider returned a score.
const DefaultFallbackScore = 75

// Reconciled is the combined analysis of one fan-out round.
type Reconciled struct {
	Score        int
	Feedback     string
	Strengths    []string
	Improvements []string
	// Providers holds the raw result of every known provider, nil when it failed.
	Providers map[string]*Result
	// Fallback is true when the narrative is the canned one.
	Fallback bool
}

// Reconciler combines provider outcomes into one analysis.
type Reconciler struct {
	FallbackScore int
	// Priority orders providers for narrative selection. Providers missing
	// from it rank after the listed ones, in fan-out order.
	Priority  []string
	Narrative Narrative
}

// NewReconciler returns a reconciler with the default fallback score and narrative.
func NewReconciler(priority ...string) Reconciler {
	return Reconciler{
		FallbackScore: DefaultFallbackScore,
		Priority:      priority,
		Narrative:     DefaultFallbackNarrative(),
	}
}

// Reconcile averages the available scores, rounding half up, and takes the
// narrative from the first successful provider in priority order. It always
// returns a complete analysis.
func (r Reconciler) Reconcile(outcomes Outcomes) Reconciled {
	out := Reconciled{
		Score:     r.FallbackScore,
		Providers: make(map[string]*Result, len(outcomes)+len(r.Priority)),
	}
	for _, name := range r.Priority {
		out.Providers[name] = nil
	}

	sum, n := 0, 0
	for _, oc := range outcomes {
		out.Providers[oc.Provider] = oc.Result
		if oc.Result != nil && oc.Result.Score != nil {
			sum += *oc.Result.Score
			n++
		}
	}
	if n > 0 {
		out.Score = roundHalfUp(float64(sum) / float64(n))
	}

	if primary := r.primary(outcomes); primary != nil {
		out.Feedback = primary.Feedback
		out.Strengths = nonNil(primary.Strengths)
		out.Improvements = nonNil(primary.Improvements)
		return out
	}

	out.Fallback = true
	out.Feedback = r.Narrative.Feedback
	out.Strengths = append([]string(nil), r.Narrative.Strengths...)
	out.Improvements = append([]string(nil), r.Narrative.Improvements...)
	return out
}

func (r Reconciler) primary(outcomes Outcomes) *Result {
	for _, name := range r.Priority {
		for _, oc := range outcomes {
			if oc.Provider == name && oc.Result != nil {
				return oc.Result
			}
		}
	}
	for _, oc := range outcomes {
		if oc.Result != nil {
			return oc.Result
		}
	}
	return nil
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

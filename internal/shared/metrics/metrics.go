package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisCompletedTotal atomic.Uint64
	analysisFallbackTotal  atomic.Uint64
	analysisDeniedTotal    atomic.Uint64
	premiumUpgradesTotal   atomic.Uint64

	providerCalls   = newLabeledCounter("provider", "outcome")
	batchProfiles   = newLabeledCounter("outcome")
	providerLatency = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 20000, 45000})
)

// IncAnalysisCompleted counts an analysis that was persisted.
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }

// IncAnalysisFallback counts an analysis where no provider produced a result.
func IncAnalysisFallback() { analysisFallbackTotal.Add(1) }

// IncAnalysisDenied counts a request rejected by the quota gate.
func IncAnalysisDenied() { analysisDeniedTotal.Add(1) }

// IncPremiumUpgrade counts applied premium upgrades.
func IncPremiumUpgrade() { premiumUpgradesTotal.Add(1) }

// ObserveProviderCall records one provider invocation.
func ObserveProviderCall(provider string, ok bool, durationMs float64) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	providerCalls.Inc(provider, outcome)
	if durationMs < 0 {
		durationMs = 0
	}
	providerLatency.Observe(durationMs)
}

// IncBatchProfile counts one batch generation task by outcome.
func IncBatchProfile(ok bool) {
	if ok {
		batchProfiles.Inc("success")
		return
	}
	batchProfiles.Inc("failure")
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ats_analysis_completed_total", "Total analyses persisted", analysisCompletedTotal.Load())
	writeCounter(&buf, "ats_analysis_fallback_total", "Analyses answered with the fallback result", analysisFallbackTotal.Load())
	writeCounter(&buf, "ats_analysis_denied_total", "Analyses rejected by the usage quota", analysisDeniedTotal.Load())
	writeCounter(&buf, "premium_upgrades_total", "Premium upgrades applied", premiumUpgradesTotal.Load())
	writeLabeled(&buf, "ai_provider_calls_total", "AI provider calls by outcome", providerCalls)
	writeLabeled(&buf, "batch_profiles_total", "Batch generation tasks by outcome", batchProfiles)
	writeHistogram(&buf, "ai_provider_latency_ms", "AI provider call latency in milliseconds", providerLatency.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	labels []string
	values map[string]uint64
}

func newLabeledCounter(labels ...string) *labeledCounter {
	return &labeledCounter{labels: labels, values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(values ...string) {
	var b bytes.Buffer
	for i, name := range l.labels {
		if i > 0 {
			b.WriteByte(',')
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		fmt.Fprintf(&b, "%s=%q", name, v)
	}
	l.mu.Lock()
	l.values[b.String()]++
	l.mu.Unlock()
}

func (l *labeledCounter) snapshot() ([]string, map[string]uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	keys := make([]string, 0, len(l.values))
	for k, v := range l.values {
		out[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket that holds it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeled(buf *bytes.Buffer, name, help string, c *labeledCounter) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := c.snapshot()
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

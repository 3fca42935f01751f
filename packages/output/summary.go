package output

import (
	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/volt/packages/core/runner"
)

// maxLatencyMs is the largest timing the histogram tracks; longer timings
// are clamped to it.
const maxLatencyMs = 3_600_000

// LatencySummary describes the recorded response timings of evaluated cases,
// in milliseconds.
type LatencySummary struct {
	Count int64   `json:"count"`
	Min   int64   `json:"min"`
	Max   int64   `json:"max"`
	Mean  float64 `json:"mean"`
	P50   int64   `json:"p50"`
	P95   int64   `json:"p95"`
	P99   int64   `json:"p99"`
}

type LatencyRecorder struct {
	histogram *hdrhistogram.Histogram
}

func NewLatencyRecorder() *LatencyRecorder {
	return &LatencyRecorder{
		histogram: hdrhistogram.New(1, maxLatencyMs, 3),
	}
}

func (l *LatencyRecorder) Record(timingMs int64) {
	if timingMs < 0 {
		timingMs = 0
	}
	if timingMs > maxLatencyMs {
		timingMs = maxLatencyMs
	}
	_ = l.histogram.RecordValue(timingMs)
}

// RecordRun records the response timing of every case that was evaluated.
func (l *LatencyRecorder) RecordRun(result *runner.RunResult) {
	for _, r := range result.Results {
		if r.Skipped || r.Response == nil {
			continue
		}
		l.Record(r.Response.TimingMs)
	}
}

func (l *LatencyRecorder) Summary() LatencySummary {
	count := l.histogram.TotalCount()
	if count == 0 {
		return LatencySummary{}
	}
	return LatencySummary{
		Count: count,
		Min:   l.histogram.Min(),
		Max:   l.histogram.Max(),
		Mean:  l.histogram.Mean(),
		P50:   l.histogram.ValueAtQuantile(50),
		P95:   l.histogram.ValueAtQuantile(95),
		P99:   l.histogram.ValueAtQuantile(99),
	}
}

// Summarize returns the latency summary of a single run.
func Summarize(result *runner.RunResult) LatencySummary {
	l := NewLatencyRecorder()
	l.RecordRun(result)
	return l.Summary()
}

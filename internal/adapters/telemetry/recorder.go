package telemetry

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanSummary is the recorded outcome of one finished span.
type SpanSummary struct {
	Name     string
	Duration time.Duration
	CacheHit bool
	Attempts int
	Failed   bool
}

// Recorder implements sdktrace.SpanProcessor and keeps a summary of every
// finished compile span for the timings report.
type Recorder struct {
	mu    sync.Mutex
	spans []SpanSummary
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnStart does nothing.
func (r *Recorder) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd records the span if it describes a compile.
func (r *Recorder) OnEnd(s sdktrace.ReadOnlySpan) {
	if !strings.HasPrefix(s.Name(), "compile ") {
		return
	}

	summary := SpanSummary{
		Name:     strings.TrimPrefix(s.Name(), "compile "),
		Duration: s.EndTime().Sub(s.StartTime()),
		Failed:   s.Status().Code == codes.Error,
	}
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case "cache.hit":
			summary.CacheHit = kv.Value.AsBool()
		case "compile.attempts":
			summary.Attempts = int(kv.Value.AsInt64())
		}
	}

	r.mu.Lock()
	r.spans = append(r.spans, summary)
	r.mu.Unlock()
}

// Spans returns the recorded summaries in completion order.
func (r *Recorder) Spans() []SpanSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.spans)
}

// ForceFlush does nothing.
func (r *Recorder) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

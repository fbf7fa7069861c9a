package telemetry_test

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type spanAdapter struct {
	span trace.Span
}

func (s *spanAdapter) set(hit bool, attempts int) {
	s.span.SetAttributes(
		attribute.Bool("cache.hit", hit),
		attribute.Int("compile.attempts", attempts),
	)
}

func markFailed(span trace.Span) {
	span.SetStatus(codes.Error, "failed")
}

package observability

import (
	"context"
	"time"
)

// Hooks bundles the sinks injected into a service. Nil members fall back to no-ops.
type Hooks struct {
	Logger  Logger
	Metrics MetricsRecorder
	Tracer  Tracer
}

// WithDefaults fills nil members with no-op implementations.
func (h Hooks) WithDefaults() Hooks {
	if h.Logger == nil {
		h.Logger = NoopLogger{}
	}
	if h.Metrics == nil {
		h.Metrics = NoopMetrics{}
	}
	if h.Tracer == nil {
		h.Tracer = NoopTracer{}
	}
	return h
}

// Track opens a span for operation. The returned finisher ends the span and
// records the outcome and duration.
func (h Hooks) Track(ctx context.Context, operation string) (context.Context, func(error)) {
	h = h.WithDefaults()
	start := time.Now()
	ctx, span := h.Tracer.Start(ctx, operation)
	return ctx, func(err error) {
		span.End(err)
		h.Metrics.Observe(ctx, operation, err == nil, time.Since(start))
	}
}

package observability

import (
	"context"
	"time"
)

// Tracer opens spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is closed with the operation's error, nil on success.
type TraceSpan interface {
	End(err error)
}

// NoopTracer returns spans that do nothing.
type NoopTracer struct{}

func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// LogTracer emits one debug entry per finished span through a Logger.
type LogTracer struct {
	Logger Logger
	Now    func() time.Time
}

func (t LogTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	now := t.Now
	if now == nil {
		now = time.Now
	}
	return ctx, &logSpan{tracer: t, now: now, operation: operation, started: now()}
}

type logSpan struct {
	tracer    LogTracer
	now       func() time.Time
	operation string
	started   time.Time
}

func (s *logSpan) End(err error) {
	if s.tracer.Logger == nil {
		return
	}
	elapsed := s.now().Sub(s.started)
	if err != nil {
		s.tracer.Logger.Debug("span finished", "operation", s.operation, "status", "error", "duration_ms", elapsed.Milliseconds(), "error", err)
		return
	}
	s.tracer.Logger.Debug("span finished", "operation", s.operation, "status", "success", "duration_ms", elapsed.Milliseconds())
}

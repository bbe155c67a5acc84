package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestZerologLoggerWritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(&buf, "debug")
	log.Warn("compensation failed", "key", "doc-1/a.pdf", "error", errors.New("denied"), "attempts", 1)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" || entry["message"] != "compensation failed" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["key"] != "doc-1/a.pdf" || entry["error"] != "denied" || entry["attempts"] != float64(1) {
		t.Fatalf("unexpected fields: %v", entry)
	}
}

func TestZerologLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(&buf, "bogus")
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at default info level, got %q", buf.String())
	}
	log.Info("shown", "dangling")
	if !strings.Contains(buf.String(), `"!BADKEY":"dangling"`) {
		t.Fatalf("expected odd arg to be kept, got %q", buf.String())
	}
}

func TestNoopsDoNothing(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	NoopMetrics{}.Observe(context.Background(), "op", true, time.Second)
	ctx, span := NoopTracer{}.Start(context.Background(), "op")
	span.End(nil)
	if ctx == nil {
		t.Fatalf("expected context")
	}
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg, "")
	if err != nil {
		t.Fatalf("NewPrometheusRecorder: %v", err)
	}
	rec.Observe(context.Background(), "create_document", true, 20*time.Millisecond)
	rec.Observe(context.Background(), "create_document", false, 5*time.Millisecond)
	rec.Observe(context.Background(), "", true, time.Millisecond)

	if got := testutil.ToFloat64(rec.total.WithLabelValues("create_document", "success")); got != 1 {
		t.Fatalf("success count = %v", got)
	}
	if got := testutil.ToFloat64(rec.total.WithLabelValues("create_document", "error")); got != 1 {
		t.Fatalf("error count = %v", got)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}
	if _, err := NewPrometheusRecorder(reg, ""); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestLogTracerEmitsSpan(t *testing.T) {
	var buf bytes.Buffer
	ticks := []time.Time{time.Unix(0, 0), time.Unix(0, int64(15*time.Millisecond))}
	i := 0
	tracer := LogTracer{Logger: NewZerologLogger(&buf, "debug"), Now: func() time.Time {
		tick := ticks[i]
		i++
		return tick
	}}
	_, span := tracer.Start(context.Background(), "resolve_targets")
	span.End(errors.New("boom"))
	out := buf.String()
	if !strings.Contains(out, `"operation":"resolve_targets"`) || !strings.Contains(out, `"duration_ms":15`) || !strings.Contains(out, `"error":"boom"`) {
		t.Fatalf("unexpected span log: %s", out)
	}
	_, silent := LogTracer{}.Start(context.Background(), "x")
	silent.End(nil)
}

type recordedCall struct {
	op      string
	success bool
}

type captureMetrics struct{ calls []recordedCall }

func (c *captureMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, recordedCall{op: op, success: success})
}

func TestHooksTrack(t *testing.T) {
	metrics := &captureMetrics{}
	var buf bytes.Buffer
	hooks := Hooks{Metrics: metrics, Tracer: LogTracer{Logger: NewZerologLogger(&buf, "debug")}}
	_, done := hooks.Track(context.Background(), "create_document")
	done(nil)
	_, done = hooks.Track(context.Background(), "delete_document")
	done(errors.New("gone"))

	if len(metrics.calls) != 2 || metrics.calls[0] != (recordedCall{"create_document", true}) || metrics.calls[1] != (recordedCall{"delete_document", false}) {
		t.Fatalf("unexpected metrics calls: %+v", metrics.calls)
	}
	if strings.Count(buf.String(), "span finished") != 2 {
		t.Fatalf("expected two spans, got %s", buf.String())
	}
	_, noop := Hooks{}.Track(context.Background(), "x")
	noop(nil)
	if d := (Hooks{}).WithDefaults(); d.Logger == nil || d.Metrics == nil || d.Tracer == nil {
		t.Fatalf("defaults not applied: %+v", d)
	}
}

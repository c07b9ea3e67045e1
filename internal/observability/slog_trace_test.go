package observability

import (
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

type captureHandler struct {
	records []slog.Record
}

func (c *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (c *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c.records = append(c.records, r)
	return nil
}

func (c *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return c }

func (c *captureHandler) WithGroup(string) slog.Handler { return c }

func recordAttrs(r slog.Record) map[string]string {
	out := make(map[string]string)

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.String()
		return true
	})

	return out
}

func TestTraceHandler(t *testing.T) {
	capture := &captureHandler{}
	log := slog.New(NewTraceHandler(capture))

	t.Run("traced context adds trace and span ids", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{0x01},
			SpanID:  trace.SpanID{0x02},
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		log.InfoContext(ctx, "request")

		attrs := recordAttrs(capture.records[len(capture.records)-1])

		if attrs["trace_id"] != sc.TraceID().String() {
			t.Errorf("trace_id = %q, want %q", attrs["trace_id"], sc.TraceID().String())
		}

		if attrs["span_id"] != sc.SpanID().String() {
			t.Errorf("span_id = %q, want %q", attrs["span_id"], sc.SpanID().String())
		}
	})

	t.Run("untraced context logs without ids", func(t *testing.T) {
		log.Info("startup")

		attrs := recordAttrs(capture.records[len(capture.records)-1])

		if _, ok := attrs["trace_id"]; ok {
			t.Errorf("unexpected trace_id on an untraced record")
		}
	})
}

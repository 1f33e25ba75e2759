package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const handlerSpanPrefix = "httpapi.Handler."

var tracer = otel.Tracer("github.com/riskibarqy/afl-dashboard/internal/interfaces/httpapi")

// startSpan opens a child span for handler entry points only. Writers and
// middleware run inside the otelhttp server span already, and untraced
// routes such as /healthz get no spans at all.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	op, ok := handlerOperation(name)
	if !ok || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noop.Span{}
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("afl.handler", op)))
}

func handlerOperation(name string) (string, bool) {
	op, ok := strings.CutPrefix(name, handlerSpanPrefix)
	return op, ok && op != ""
}

// markSpanError flags the active span when a request ends in a server-side
// failure. Client errors are left alone.
func markSpanError(ctx context.Context, status int, err error) {
	if status < 500 || err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

package httpapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestHandlerOperation(t *testing.T) {
	tests := []struct {
		in     string
		wantOp string
		wantOK bool
	}{
		{in: "httpapi.Handler.GetTeamDashboard", wantOp: "GetTeamDashboard", wantOK: true},
		{in: "httpapi.Handler.", wantOK: false},
		{in: "httpapi.RequireInternalJobToken", wantOK: false},
		{in: "httpapi.writeRows", wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			op, ok := handlerOperation(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantOp, op)
			}
		})
	}
}

func TestStartSpan_NoParentStaysSilent(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.GetStatus")
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.False(t, span.SpanContext().IsValid())
	assert.False(t, trace.SpanFromContext(got).IsRecording())
}

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /HEALTHZ "} {
		assert.False(t, shouldTraceRequest(path), path)
	}
	for _, path := range []string{"/v1/status", "/v1/teams/COLL/dashboard", "/api/data", "/docs"} {
		assert.True(t, shouldTraceRequest(path), path)
	}
}

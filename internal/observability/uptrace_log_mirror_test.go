package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

func TestIsQuietRequest(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "health ok", msg: "http_request", args: []any{"http_path", "/healthz", "http_status", 200}, want: true},
		{name: "status poll", msg: "http_request", args: []any{"http_path", "/v1/status", "http_status", 200}, want: true},
		{name: "status poll failing", msg: "http_request", args: []any{"http_path", "/v1/status", "http_status", 503}},
		{name: "dashboard", msg: "http_request", args: []any{"http_path", "/v1/teams/COLL/dashboard"}},
		{name: "other event", msg: "datasets published", args: []any{"http_path", "/healthz"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isQuietRequest(tc.msg, tc.args))
		})
	}
}

func TestMirrorAttributes(t *testing.T) {
	attrs := mirrorAttributes([]any{"file", "team_kpis.csv", 7, uint8(2), "dangling"})
	require.Len(t, attrs, 3)

	assert.Equal(t, "file", attrs[0].Key)
	assert.Equal(t, "team_kpis.csv", attrs[0].Value.AsString())
	assert.Equal(t, "arg1", attrs[1].Key)
	assert.Equal(t, int64(2), attrs[1].Value.AsInt64())
	assert.Equal(t, "dangling", attrs[2].Key)
	assert.Equal(t, otellog.KindEmpty, attrs[2].Value.Kind())
}

func TestMirrorValue(t *testing.T) {
	counts := mirrorValue(map[dataset.Kind]int{
		dataset.KindTeamKPI: 18,
		dataset.KindRoster:  640,
	}, 0)
	require.Equal(t, otellog.KindMap, counts.Kind())
	items := counts.AsMap()
	require.Len(t, items, 2)
	assert.Equal(t, "roster_players", items[0].Key)
	assert.Equal(t, int64(640), items[0].Value.AsInt64())

	assert.Equal(t, "boom", mirrorValue(errors.New("boom"), 0).AsString())
	assert.Equal(t, 0.5, mirrorValue(float32(0.5), 0).AsFloat64())
	assert.Equal(t, otellog.KindSlice, mirrorValue([]string{"COLL", "CARL"}, 0).Kind())

	var missing *int
	assert.Equal(t, otellog.KindEmpty, mirrorValue(missing, 0).Kind())
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, otellog.SeverityInfo, severityOf(zapcore.InfoLevel))
	assert.Equal(t, otellog.SeverityError, severityOf(zapcore.ErrorLevel))
	assert.Equal(t, otellog.SeverityFatal, severityOf(zapcore.DPanicLevel))
}

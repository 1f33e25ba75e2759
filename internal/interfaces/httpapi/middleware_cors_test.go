package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	const dashboardOrigin = "https://afl-dashboard.example.com"

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantHeaders bool
	}{
		{
			name:        "configured origin",
			allowed:     []string{dashboardOrigin},
			method:      http.MethodGet,
			origin:      dashboardOrigin,
			wantStatus:  http.StatusOK,
			wantOrigin:  dashboardOrigin,
			wantHeaders: true,
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      dashboardOrigin,
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantHeaders: true,
		},
		{
			name:       "unknown origin",
			allowed:    []string{dashboardOrigin},
			method:     http.MethodGet,
			origin:     "https://scraper.example.net",
			wantStatus: http.StatusOK,
		},
		{
			name:       "same origin request",
			allowed:    []string{dashboardOrigin},
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(tc.method, "/api/data?file=team_kpis.csv", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			allowHeaders := rec.Header().Get("Access-Control-Allow-Headers")
			if tc.wantHeaders {
				assert.Contains(t, allowHeaders, dataKeyHeader)
				assert.Contains(t, allowHeaders, internalJobTokenHeader)
			} else {
				assert.Empty(t, allowHeaders)
			}
		})
	}
}

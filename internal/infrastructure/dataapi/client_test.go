package dataapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

func newTestClient(srv *httptest.Server, key string, cb CircuitBreakerConfig) *Client {
	return NewClient(srv.Client(), srv.URL, key, time.Second, cb, logging.NewNop())
}

func TestClientFetch_SendsKeyAndParsesRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/data" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("file"); got != "team_kpis.csv" {
			t.Fatalf("unexpected file: %s", got)
		}
		if got := r.Header.Get("x-data-key"); got != "client-secret" {
			t.Fatalf("unexpected x-data-key: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode([]map[string]any{
			{"club": "Collingwood", "season": 2025},
			{"club": "Carlton", "season": nil},
		})
	}))
	defer srv.Close()

	rows, err := newTestClient(srv, "client-secret", CircuitBreakerConfig{}).Fetch(context.Background(), "team_kpis.csv")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(rows))
	}
	if rows[0]["season"] != float64(2025) || rows[1]["season"] != nil {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestClientFetch_NonArrayBodyIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-data-key") != "" {
			t.Fatalf("no key header expected without a client key")
		}
		_, _ = w.Write([]byte(`{"message":"not rows"}`))
	}))
	defer srv.Close()

	rows, err := newTestClient(srv, "", CircuitBreakerConfig{}).Fetch(context.Background(), "team_kpis.csv")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty rows, got %v", rows)
	}
}

func TestClientFetch_UnauthorizedMessages(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "with key", key: "wrong", want: "(check DATA_API_CLIENT_KEY matches DATA_API_KEY)"},
		{name: "without key", key: "", want: "(no DATA_API_CLIENT_KEY set)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestClient(srv, tc.key, CircuitBreakerConfig{}).Fetch(context.Background(), "team_kpis.csv")
			if !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "Unauthorized calling "+srv.URL+"/api/data?file=team_kpis.csv") {
				t.Fatalf("unexpected message: %s", err.Error())
			}
			if !strings.HasSuffix(err.Error(), tc.want) {
				t.Fatalf("unexpected message: got=%s want suffix=%s", err.Error(), tc.want)
			}
		})
	}
}

func TestClientFetch_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid file", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "k", CircuitBreakerConfig{}).Fetch(context.Background(), "player_projection.csv")
	if err == nil || err.Error() != "failed to load player_projection.csv via API (400)" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientFetch_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv, "k", resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for range 2 {
		if _, err := client.Fetch(context.Background(), "team_kpis.csv"); err == nil {
			t.Fatalf("expected error")
		}
	}

	_, err := client.Fetch(context.Background(), "team_kpis.csv")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not call the server: got=%d", calls.Load())
	}
}

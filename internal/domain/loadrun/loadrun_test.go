package loadrun

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultListLimit},
		{in: -4, want: DefaultListLimit},
		{in: 5, want: 5},
		{in: 10_000, want: MaxListLimit},
	}
	for _, tc := range tests {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d)=%d want=%d", tc.in, got, tc.want)
		}
	}
}

func TestRunDuration(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	run := Run{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond)}
	if got := run.Duration(); got != 1500*time.Millisecond {
		t.Fatalf("unexpected duration: got=%s", got)
	}
	if got := (Run{StartedAt: start}).Duration(); got != 0 {
		t.Fatalf("unfinished run must have zero duration: got=%s", got)
	}
}

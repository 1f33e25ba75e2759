package id

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewRandomGenerator("run_")
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	b, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if !strings.HasPrefix(a, "run_") || len(a) != len("run_")+32 {
		t.Fatalf("unexpected id shape: %q", a)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestRandomGenerator_SortsByTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	g := NewRandomGenerator("run_")
	g.now = func() time.Time { return now }

	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	now = now.Add(time.Millisecond)
	second, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if want := fmt.Sprintf("run_%012x", now.Add(-time.Millisecond).UnixMilli()); !strings.HasPrefix(first, want) {
		t.Fatalf("expected %q to start with %q", first, want)
	}
	if first >= second {
		t.Fatalf("expected %q < %q", first, second)
	}
}

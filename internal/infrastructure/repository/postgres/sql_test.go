package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(errors.Wrap(sql.ErrNoRows, "get load run")) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("pq: relation load_runs does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestLoadRunModel(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("AEDT", 11*3600))
	run := loadrun.Run{
		ID:              "run_abc",
		StartedAt:       start,
		FinishedAt:      start.Add(time.Second),
		Status:          loadrun.StatusFailed,
		Error:           " boom ",
		RowCounts:       map[dataset.Kind]int{dataset.KindRoster: 10},
		DroppedCounts:   map[dataset.Kind]int{dataset.KindRoster: 1},
		SnapshotVersion: 4,
	}

	model, err := toLoadRunModel(run)
	if err != nil {
		t.Fatalf("toLoadRunModel: %v", err)
	}
	if model.ErrorMessage == nil || *model.ErrorMessage != "boom" {
		t.Fatalf("unexpected error message: %v", model.ErrorMessage)
	}
	if model.RowCounts != `{"roster_players":10}` {
		t.Fatalf("unexpected row counts: %s", model.RowCounts)
	}
	if model.StartedAt.Location() != time.UTC {
		t.Fatalf("timestamps must be stored in UTC")
	}

	got, err := model.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	run.Error = "boom"
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	if diff := cmp.Diff(run, got); diff != "" {
		t.Fatalf("unexpected run (-want +got):\n%s", diff)
	}

	if _, err := toLoadRunModel(loadrun.Run{}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

package loadrun

import (
	"context"
	"time"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Run is the audit record of one LoadAll.
type Run struct {
	ID              string               `json:"id"`
	StartedAt       time.Time            `json:"startedAt"`
	FinishedAt      time.Time            `json:"finishedAt"`
	Status          Status               `json:"status"`
	Error           string               `json:"error,omitempty"`
	RowCounts       map[dataset.Kind]int `json:"rowCounts"`
	DroppedCounts   map[dataset.Kind]int `json:"droppedCounts"`
	SnapshotVersion uint64               `json:"snapshotVersion"`
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

type Repository interface {
	Insert(ctx context.Context, run Run) error
	// List returns runs newest first.
	List(ctx context.Context, limit int) ([]Run, error)
	GetByID(ctx context.Context, id string) (Run, bool, error)
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

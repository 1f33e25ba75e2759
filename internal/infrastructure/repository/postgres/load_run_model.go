package postgres

import "time"

const loadRunsTable = "load_runs"

type loadRunModel struct {
	ID              string    `db:"id"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
	Status          string    `db:"status"`
	ErrorMessage    *string   `db:"error_message"`
	RowCounts       string    `db:"row_counts"`
	DroppedCounts   string    `db:"dropped_counts"`
	SnapshotVersion int64     `db:"snapshot_version"`
}

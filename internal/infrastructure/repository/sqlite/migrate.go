package sqlite

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
)

type migration struct {
	Version     int
	Description string
	Statements  []string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "create load_runs",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS load_runs (
				id               TEXT PRIMARY KEY,
				started_at       TEXT NOT NULL,
				finished_at      TEXT NOT NULL,
				status           TEXT NOT NULL,
				error_message    TEXT,
				row_counts       TEXT NOT NULL DEFAULT '{}',
				dropped_counts   TEXT NOT NULL DEFAULT '{}',
				snapshot_version INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_load_runs_started_at ON load_runs (started_at DESC)`,
		},
	},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

func schemaVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var version int
	if err := db.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return 0, errors.Wrap(err, "read schema version")
	}
	return version, nil
}

// migrate applies pending migrations, tracking progress in PRAGMA user_version.
func migrate(ctx context.Context, db *sqlx.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current >= latestVersion() {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return errors.Wrapf(err, "begin migration %d", m.Version)
		}
		for _, stmt := range m.Statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return errors.Wrapf(err, "migration %d (%s)", m.Version, m.Description)
			}
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(m.Version)); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "stamp migration %d", m.Version)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit migration %d", m.Version)
		}
	}
	return nil
}

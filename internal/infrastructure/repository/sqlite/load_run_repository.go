package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	qb "github.com/riskibarqy/afl-dashboard/internal/platform/querybuilder"
)

const (
	loadRunsTable = "load_runs"
	// timeLayout is fixed width so stored timestamps sort as text.
	timeLayout    = "2006-01-02T15:04:05.000000000Z"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type loadRunModel struct {
	ID              string  `db:"id"`
	StartedAt       string  `db:"started_at"`
	FinishedAt      string  `db:"finished_at"`
	Status          string  `db:"status"`
	ErrorMessage    *string `db:"error_message"`
	RowCounts       string  `db:"row_counts"`
	DroppedCounts   string  `db:"dropped_counts"`
	SnapshotVersion int64   `db:"snapshot_version"`
}

// LoadRunRepository stores the audit log in a local SQLite file.
type LoadRunRepository struct {
	db *sqlx.DB
}

func NewLoadRunRepository(db *sqlx.DB) *LoadRunRepository {
	return &LoadRunRepository{db: db}
}

func (r *LoadRunRepository) Insert(ctx context.Context, run loadrun.Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("load run id is required")
	}
	rowCounts, err := json.MarshalToString(orEmpty(run.RowCounts))
	if err != nil {
		return errors.Wrap(err, "marshal row counts")
	}
	dropped, err := json.MarshalToString(orEmpty(run.DroppedCounts))
	if err != nil {
		return errors.Wrap(err, "marshal dropped counts")
	}

	model := loadRunModel{
		ID:              run.ID,
		StartedAt:       run.StartedAt.UTC().Format(timeLayout),
		FinishedAt:      run.FinishedAt.UTC().Format(timeLayout),
		Status:          string(run.Status),
		RowCounts:       rowCounts,
		DroppedCounts:   dropped,
		SnapshotVersion: int64(run.SnapshotVersion),
	}
	if msg := strings.TrimSpace(run.Error); msg != "" {
		model.ErrorMessage = &msg
	}

	query, args, err := qb.InsertModel(qb.SQLite, loadRunsTable, model, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return errors.Wrap(err, "build insert load run query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert load run %s", run.ID)
	}
	return nil
}

func (r *LoadRunRepository) List(ctx context.Context, limit int) ([]loadrun.Run, error) {
	query, args, err := qb.Select(qb.Columns(loadRunModel{})...).
		Dialect(qb.SQLite).
		From(loadRunsTable).
		OrderBy("started_at DESC", "rowid DESC").
		Limit(loadrun.NormalizeLimit(limit)).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list load runs query")
	}

	var rows []loadRunModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list load runs")
	}

	out := make([]loadrun.Run, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func (r *LoadRunRepository) GetByID(ctx context.Context, id string) (loadrun.Run, bool, error) {
	query, args, err := qb.Select(qb.Columns(loadRunModel{})...).
		Dialect(qb.SQLite).
		From(loadRunsTable).
		Where(qb.Eq("id", strings.TrimSpace(id))).
		ToSQL()
	if err != nil {
		return loadrun.Run{}, false, errors.Wrap(err, "build get load run query")
	}

	var rows []loadRunModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return loadrun.Run{}, false, errors.Wrapf(err, "get load run %s", id)
	}
	if len(rows) == 0 {
		return loadrun.Run{}, false, nil
	}
	run, err := rows[0].toDomain()
	if err != nil {
		return loadrun.Run{}, false, err
	}
	return run, true, nil
}

func (m loadRunModel) toDomain() (loadrun.Run, error) {
	started, err := time.Parse(timeLayout, m.StartedAt)
	if err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "parse started_at of %s", m.ID)
	}
	finished, err := time.Parse(timeLayout, m.FinishedAt)
	if err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "parse finished_at of %s", m.ID)
	}

	run := loadrun.Run{
		ID:              m.ID,
		StartedAt:       started,
		FinishedAt:      finished,
		Status:          loadrun.Status(m.Status),
		SnapshotVersion: uint64(max(m.SnapshotVersion, 0)),
		RowCounts:       map[dataset.Kind]int{},
		DroppedCounts:   map[dataset.Kind]int{},
	}
	if m.ErrorMessage != nil {
		run.Error = *m.ErrorMessage
	}
	if err := json.UnmarshalFromString(m.RowCounts, &run.RowCounts); err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "decode row counts of %s", m.ID)
	}
	if err := json.UnmarshalFromString(m.DroppedCounts, &run.DroppedCounts); err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "decode dropped counts of %s", m.ID)
	}
	return run, nil
}

func orEmpty(counts map[dataset.Kind]int) map[dataset.Kind]int {
	if counts == nil {
		return map[dataset.Kind]int{}
	}
	return counts
}

package postgres

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	qb "github.com/riskibarqy/afl-dashboard/internal/platform/querybuilder"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type LoadRunRepository struct {
	db *sqlx.DB
}

func NewLoadRunRepository(db *sqlx.DB) *LoadRunRepository {
	return &LoadRunRepository{db: db}
}

func (r *LoadRunRepository) Insert(ctx context.Context, run loadrun.Run) error {
	model, err := toLoadRunModel(run)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel(qb.Postgres, loadRunsTable, model, "ON CONFLICT (id) DO NOTHING")
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
		From(loadRunsTable).
		OrderBy("started_at DESC", "id DESC").
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
		From(loadRunsTable).
		Where(qb.Eq("id", strings.TrimSpace(id))).
		ToSQL()
	if err != nil {
		return loadrun.Run{}, false, errors.Wrap(err, "build get load run query")
	}

	var row loadRunModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return loadrun.Run{}, false, nil
		}
		return loadrun.Run{}, false, errors.Wrapf(err, "get load run %s", id)
	}

	run, err := row.toDomain()
	if err != nil {
		return loadrun.Run{}, false, err
	}
	return run, true, nil
}

func toLoadRunModel(run loadrun.Run) (loadRunModel, error) {
	if strings.TrimSpace(run.ID) == "" {
		return loadRunModel{}, errors.New("load run id is required")
	}

	rowCounts, err := marshalCounts(run.RowCounts)
	if err != nil {
		return loadRunModel{}, errors.Wrap(err, "marshal row counts")
	}
	dropped, err := marshalCounts(run.DroppedCounts)
	if err != nil {
		return loadRunModel{}, errors.Wrap(err, "marshal dropped counts")
	}

	return loadRunModel{
		ID:              run.ID,
		StartedAt:       run.StartedAt.UTC(),
		FinishedAt:      run.FinishedAt.UTC(),
		Status:          string(run.Status),
		ErrorMessage:    optionalString(run.Error),
		RowCounts:       rowCounts,
		DroppedCounts:   dropped,
		SnapshotVersion: int64(run.SnapshotVersion),
	}, nil
}

func (m loadRunModel) toDomain() (loadrun.Run, error) {
	run := loadrun.Run{
		ID:              m.ID,
		StartedAt:       m.StartedAt.UTC(),
		FinishedAt:      m.FinishedAt.UTC(),
		Status:          loadrun.Status(m.Status),
		SnapshotVersion: uint64(max(m.SnapshotVersion, 0)),
	}
	if m.ErrorMessage != nil {
		run.Error = *m.ErrorMessage
	}

	var err error
	if run.RowCounts, err = unmarshalCounts(m.RowCounts); err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "decode row counts of %s", m.ID)
	}
	if run.DroppedCounts, err = unmarshalCounts(m.DroppedCounts); err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "decode dropped counts of %s", m.ID)
	}
	return run, nil
}

func marshalCounts(counts map[dataset.Kind]int) (string, error) {
	if counts == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalCounts(raw string) (map[dataset.Kind]int, error) {
	out := map[dataset.Kind]int{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

package blob

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

// DatasetSource serves allow-listed CSV files from an ObjectStore as raw rows.
type DatasetSource struct {
	store ObjectStore
}

func NewDatasetSource(store ObjectStore) *DatasetSource {
	return &DatasetSource{store: store}
}

func (s *DatasetSource) Fetch(ctx context.Context, file string) ([]dataset.RawRow, error) {
	file = strings.TrimSpace(file)
	if !dataset.IsAllowed(file) {
		return nil, errors.Mark(errors.Wrapf(dataset.ErrFileNotAllowed, "fetch %q", file), usecase.ErrInvalidInput)
	}

	rc, err := s.store.Open(ctx, file)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := ParseCSV(rc)
	if err != nil {
		var parseErrs dataset.ParseErrors
		if errors.As(err, &parseErrs) {
			return nil, parseErrs
		}
		return nil, errors.Wrapf(err, "parse %s", file)
	}
	return rows, nil
}

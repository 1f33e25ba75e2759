package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

// LocalStore serves dataset files from a directory, for development and the CLI.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: strings.TrimSpace(dir)}
}

func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.dir == "" {
		return nil, errors.Mark(errors.New("Server misconfigured: missing DATA_LOCAL_DIR"), usecase.ErrMisconfigured)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Mark(errors.Newf("file %s not found", name), usecase.ErrNotFound)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

package blob

import (
	"context"
	"io"
)

// ObjectStore opens dataset files by name.
type ObjectStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

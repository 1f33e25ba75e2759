package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Flight collapses concurrent loads of the same dataset or memo key into one
// call. Callers whose context ends stop waiting; the shared call keeps running
// for the others.
type Flight struct {
	group singleflight.Group
}

func (f *Flight) Do(ctx context.Context, key string, fn func() (any, error)) (value any, shared bool, err error) {
	ch := f.group.DoChan(key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Forget drops key so the next Do starts a fresh call.
func (f *Flight) Forget(key string) {
	f.group.Forget(key)
}

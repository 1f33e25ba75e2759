package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
)

// LoadRunRepository keeps the most recent runs in memory, capped at capacity.
type LoadRunRepository struct {
	mu       sync.RWMutex
	runs     []loadrun.Run
	capacity int
}

func NewLoadRunRepository(capacity int) *LoadRunRepository {
	if capacity <= 0 {
		capacity = loadrun.MaxListLimit
	}
	return &LoadRunRepository{capacity: capacity}
}

func (r *LoadRunRepository) Insert(_ context.Context, run loadrun.Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("load run id is required")
	}

	run.RowCounts = maps.Clone(run.RowCounts)
	run.DroppedCounts = maps.Clone(run.DroppedCounts)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, run)
	if over := len(r.runs) - r.capacity; over > 0 {
		r.runs = slices.Delete(r.runs, 0, over)
	}
	return nil
}

func (r *LoadRunRepository) List(_ context.Context, limit int) ([]loadrun.Run, error) {
	limit = loadrun.NormalizeLimit(limit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]loadrun.Run, 0, min(limit, len(r.runs)))
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}

func (r *LoadRunRepository) GetByID(_ context.Context, id string) (loadrun.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, run := range r.runs {
		if run.ID == id {
			return run, true, nil
		}
	}
	return loadrun.Run{}, false, nil
}

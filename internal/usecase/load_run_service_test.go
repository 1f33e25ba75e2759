package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/repository/memory"
	loadrunmock "github.com/riskibarqy/afl-dashboard/internal/mocks/domain/loadrun"
)

func TestLoadRunService_ListAndLatest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewLoadRunRepository(10)
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"run_a", "run_b"} {
		run := loadrun.Run{
			ID:         id,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
			Status:     loadrun.StatusSucceeded,
		}
		if err := repo.Insert(ctx, run); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	svc := NewLoadRunService(repo)
	runs, err := svc.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	gotIDs := make([]string, 0, len(runs))
	for _, r := range runs {
		gotIDs = append(gotIDs, r.ID)
	}
	if diff := cmp.Diff([]string{"run_b", "run_a"}, gotIDs); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "run_b" {
		t.Fatalf("unexpected latest: got=%s want=run_b", latest.ID)
	}

	got, err := svc.Get(ctx, " run_a ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "run_a" {
		t.Fatalf("unexpected run: got=%s", got.ID)
	}
}

func TestLoadRunService_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewLoadRunService(memory.NewLoadRunRepository(5))

	if _, err := svc.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected latest error: got=%v want=%v", err, ErrNotFound)
	}
	if _, err := svc.Get(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected get error: got=%v want=%v", err, ErrInvalidInput)
	}
	if _, err := svc.Get(ctx, "run_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected get error: got=%v want=%v", err, ErrNotFound)
	}
}

func TestLoadRunService_ListClampsLimit(t *testing.T) {
	t.Parallel()

	repo := loadrunmock.NewRepository(t)
	repo.On("List", mock.Anything, loadrun.MaxListLimit).Return([]loadrun.Run{}, nil).Once()

	if _, err := NewLoadRunService(repo).List(context.Background(), 10_000); err != nil {
		t.Fatalf("list: %v", err)
	}
}

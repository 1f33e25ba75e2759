package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
)

type LoadRunService struct {
	repo loadrun.Repository
}

func NewLoadRunService(repo loadrun.Repository) *LoadRunService {
	return &LoadRunService{repo: repo}
}

func (s *LoadRunService) List(ctx context.Context, limit int) ([]loadrun.Run, error) {
	ctx, span := startSpan(ctx, "usecase.LoadRunService.List")
	defer span.End()

	runs, err := s.repo.List(ctx, loadrun.NormalizeLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "list load runs")
	}
	return runs, nil
}

func (s *LoadRunService) Latest(ctx context.Context) (loadrun.Run, error) {
	runs, err := s.List(ctx, 1)
	if err != nil {
		return loadrun.Run{}, err
	}
	if len(runs) == 0 {
		return loadrun.Run{}, errors.Wrap(ErrNotFound, "no load runs recorded")
	}
	return runs[0], nil
}

func (s *LoadRunService) Get(ctx context.Context, id string) (loadrun.Run, error) {
	ctx, span := startSpan(ctx, "usecase.LoadRunService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return loadrun.Run{}, errors.Wrap(ErrInvalidInput, "load run id is required")
	}
	run, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return loadrun.Run{}, errors.Wrapf(err, "get load run %s", id)
	}
	if !ok {
		return loadrun.Run{}, errors.Wrapf(ErrNotFound, "load run %s", id)
	}
	return run, nil
}

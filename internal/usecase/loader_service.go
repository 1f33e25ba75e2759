package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	"github.com/riskibarqy/afl-dashboard/internal/normalize"
	idgen "github.com/riskibarqy/afl-dashboard/internal/platform/id"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/viewstate"
)

// PublishHook runs after a new snapshot becomes visible.
type PublishHook func(ctx context.Context, view viewstate.View)

// LoaderService fetches every dataset and publishes them as one snapshot.
type LoaderService struct {
	source    dataset.Source
	store     *viewstate.Store
	runs      loadrun.Repository
	ids       idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
	onPublish []PublishHook
}

func NewLoaderService(
	source dataset.Source,
	store *viewstate.Store,
	runs loadrun.Repository,
	ids idgen.Generator,
	logger *logging.Logger,
) *LoaderService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = idgen.NewRandomGenerator("run_")
	}

	return &LoaderService{
		source: source,
		store:  store,
		runs:   runs,
		ids:    ids,
		logger: logger.Named("loader"),
		now:    time.Now,
	}
}

// OnPublish registers hook for successful loads.
func (s *LoaderService) OnPublish(hook PublishHook) {
	if hook != nil {
		s.onPublish = append(s.onPublish, hook)
	}
}

// Current returns the view readers see right now.
func (s *LoaderService) Current() viewstate.View {
	return s.store.Current()
}

// LoadAll fetches the datasets concurrently. Either all of them are published
// together or none is, and the previous snapshot stays visible.
func (s *LoaderService) LoadAll(ctx context.Context) (view viewstate.View, err error) {
	ctx, span := startJobSpan(ctx, "usecase.LoaderService.LoadAll", attribute.Int("afl.datasets", len(dataset.Kinds)))
	defer func() { endSpan(span, err) }()

	started := s.now()
	s.store.Begin()

	results := make([]normalize.Result, len(dataset.Kinds))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, kind := range dataset.Kinds {
		p.Go(func(ctx context.Context) error {
			res, err := s.loadKind(ctx, kind)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err = p.Wait(); err != nil {
		view = s.store.Fail(err)
		s.record(ctx, started, view, nil, nil, err)
		s.logger.ErrorContext(ctx, "dataset load failed", "error", err)
		return view, err
	}

	snap := &dataset.Snapshot{}
	rowCounts := make(map[dataset.Kind]int, len(results))
	dropped := make(map[dataset.Kind]int, len(results))
	for _, res := range results {
		res.ApplyTo(snap)
		rowCounts[res.Kind] = res.Kept
		dropped[res.Kind] = res.Dropped
	}

	view = s.store.Publish(snap, dropped)
	if view.Snapshot != snap {
		s.logger.InfoContext(ctx, "view store closed, snapshot discarded")
		return view, nil
	}
	s.record(ctx, started, view, rowCounts, dropped, nil)
	s.logger.InfoContext(ctx, "datasets published",
		"version", view.Version,
		"duration_ms", s.now().Sub(started).Milliseconds(),
	)

	for _, hook := range s.onPublish {
		hook(ctx, view)
	}
	return view, nil
}

func (s *LoaderService) loadKind(ctx context.Context, kind dataset.Kind) (normalize.Result, error) {
	var lastErr error
	for _, file := range kind.Files() {
		rows, err := s.source.Fetch(ctx, file)
		if err != nil {
			lastErr = err
			s.logger.WarnContext(ctx, "dataset candidate failed",
				"dataset", string(kind),
				"file", file,
				"reason", Reason(err),
				"error", err,
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		res, err := normalize.Dataset(kind, rows)
		if err != nil {
			return normalize.Result{}, errors.Wrapf(err, "normalize %s", file)
		}
		if res.Dropped > 0 {
			s.logger.DebugContext(ctx, "dataset rows dropped",
				"dataset", string(kind),
				"kept", res.Kept,
				"dropped", res.Dropped,
			)
		}
		return res, nil
	}
	return normalize.Result{}, lastErr
}

func (s *LoaderService) record(ctx context.Context, started time.Time, view viewstate.View, rows, dropped map[dataset.Kind]int, loadErr error) {
	if s.runs == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate load run id failed", "error", err)
		return
	}

	run := loadrun.Run{
		ID:              runID,
		StartedAt:       started,
		FinishedAt:      s.now(),
		Status:          loadrun.StatusSucceeded,
		RowCounts:       rows,
		DroppedCounts:   dropped,
		SnapshotVersion: view.Version,
	}
	if loadErr != nil {
		run.Status = loadrun.StatusFailed
		run.Error = loadErr.Error()
	}

	if err := s.runs.Insert(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "record load run failed", "run_id", runID, "error", err)
	}
}

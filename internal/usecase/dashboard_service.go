package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/afl-dashboard/internal/analytics"
	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/normalize"
	"github.com/riskibarqy/afl-dashboard/internal/platform/cache"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/selection"
	"github.com/riskibarqy/afl-dashboard/internal/viewstate"
)

const defaultWarmWorkers = 4

type CareerQuery struct {
	PlayerID        string
	TeamID          string
	ComparePlayerID string
	Outlook         string
	Season          int
}

// DashboardService serves derived view models over the current snapshot,
// memoized per snapshot version.
type DashboardService struct {
	store   *viewstate.Store
	memo    *cache.Store
	workers int
	logger  *logging.Logger
}

func NewDashboardService(store *viewstate.Store, memo *cache.Store, workers int, logger *logging.Logger) *DashboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = defaultWarmWorkers
	}
	return &DashboardService{
		store:   store,
		memo:    memo,
		workers: workers,
		logger:  logger.Named("dashboard"),
	}
}

func (s *DashboardService) Teams() []analytics.TeamRef {
	teams := club.All()
	out := make([]analytics.TeamRef, 0, len(teams))
	for _, t := range teams {
		out = append(out, analytics.ResolveTeam(t.ID))
	}
	return out
}

func (s *DashboardService) TeamDashboard(ctx context.Context, teamID string, season int, compareTeamID string) (analytics.TeamDashboard, error) {
	ctx, span := startSpan(ctx, "usecase.DashboardService.TeamDashboard", attribute.String("afl.team_id", teamID))
	defer span.End()

	view, err := s.readyView()
	if err != nil {
		return analytics.TeamDashboard{}, err
	}
	q, err := teamQuery(teamID, season, compareTeamID)
	if err != nil {
		return analytics.TeamDashboard{}, err
	}
	return s.teamDashboard(ctx, view, q)
}

func (s *DashboardService) teamDashboard(ctx context.Context, view viewstate.View, q analytics.TeamQuery) (analytics.TeamDashboard, error) {
	key := cache.Key(view.Version, "team", q.TeamID, strconv.Itoa(q.Season), q.CompareTeamID)
	return cache.Load(ctx, s.memo, key, func(context.Context) (analytics.TeamDashboard, error) {
		return analytics.BuildTeamDashboard(view.Snapshot, q), nil
	})
}

func (s *DashboardService) PlayerCareer(ctx context.Context, q CareerQuery) (analytics.PlayerCareer, error) {
	ctx, span := startSpan(ctx, "usecase.DashboardService.PlayerCareer", attribute.String("afl.player_id", q.PlayerID))
	defer span.End()

	view, err := s.readyView()
	if err != nil {
		return analytics.PlayerCareer{}, err
	}

	playerID := normalize.PlayerID(q.PlayerID)
	if playerID == "" {
		return analytics.PlayerCareer{}, errors.Wrap(ErrInvalidInput, "player id is required")
	}
	season := q.Season
	if season == 0 {
		season = selection.DefaultSeason
	}

	teamID := club.CoerceTeamID(q.TeamID)
	if teamID == "" {
		if inferred, ok := selection.InferTeamFromRoster(view.Snapshot.Roster, playerID, season); ok {
			teamID = inferred
		} else {
			teamID = club.DefaultTeamID
		}
	}
	if _, ok := club.ByID(teamID); !ok {
		return analytics.PlayerCareer{}, errors.Wrapf(ErrNotFound, "team %s", teamID)
	}

	outlook := analytics.ParseOutlook(q.Outlook)
	compare := normalize.PlayerID(q.ComparePlayerID)

	dist, err := s.distributions(ctx, view)
	if err != nil {
		return analytics.PlayerCareer{}, err
	}

	key := cache.Key(view.Version, "career", teamID, playerID, compare, string(outlook))
	return cache.Load(ctx, s.memo, key, func(context.Context) (analytics.PlayerCareer, error) {
		return analytics.BuildPlayerCareer(view.Snapshot, dist, analytics.CareerQuery{
			PlayerID:        playerID,
			TeamID:          teamID,
			ComparePlayerID: compare,
			Outlook:         outlook,
		}), nil
	})
}

func (s *DashboardService) distributions(ctx context.Context, view viewstate.View) (analytics.Distributions, error) {
	return cache.Load(ctx, s.memo, cache.Key(view.Version, "distributions"), func(context.Context) (analytics.Distributions, error) {
		return analytics.BuildDistributions(view.Snapshot.CareerProjections), nil
	})
}

// Warm precomputes the team dashboard of every club for each of its year pills
// and drops memo entries of older snapshots.
func (s *DashboardService) Warm(ctx context.Context, view viewstate.View) error {
	if !view.Ready() {
		return errors.Wrap(ErrDependencyUnavailable, "no snapshot to warm")
	}
	started := time.Now()

	workers, err := ants.NewPool(s.workers)
	if err != nil {
		return errors.Wrap(err, "create warm pool")
	}
	defer func() { _ = workers.ReleaseTimeout(5 * time.Second) }()

	var (
		wg     sync.WaitGroup
		warmed atomic.Int64
		failed atomic.Int64
	)
	for _, team := range s.Teams() {
		for _, season := range analytics.YearPills(view.Snapshot.TeamKPIs, team.Key) {
			q := analytics.TeamQuery{TeamID: team.ID, Season: season}
			wg.Add(1)
			submitErr := workers.Submit(func() {
				defer wg.Done()
				if ctx.Err() != nil {
					return
				}
				if _, err := s.teamDashboard(ctx, view, q); err != nil {
					failed.Add(1)
					return
				}
				warmed.Add(1)
			})
			if submitErr != nil {
				wg.Done()
				failed.Add(1)
			}
		}
	}
	wg.Wait()

	removed := 0
	if s.memo != nil {
		removed = s.memo.Retain(view.Version)
	}
	s.logger.InfoContext(ctx, "dashboard cache warmed",
		"version", view.Version,
		"warmed", warmed.Load(),
		"failed", failed.Load(),
		"evicted", removed,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (s *DashboardService) readyView() (viewstate.View, error) {
	view := s.store.Current()
	if !view.Ready() {
		if view.Err != nil {
			return viewstate.View{}, errors.Wrapf(ErrDependencyUnavailable, "datasets not loaded: %v", view.Err)
		}
		return viewstate.View{}, errors.Wrap(ErrDependencyUnavailable, "datasets not loaded yet")
	}
	return view, nil
}

func teamQuery(teamID string, season int, compareTeamID string) (analytics.TeamQuery, error) {
	id := club.CoerceTeamID(teamID)
	if id == "" {
		return analytics.TeamQuery{}, errors.Wrap(ErrInvalidInput, "team id is required")
	}
	if _, ok := club.ByID(id); !ok {
		return analytics.TeamQuery{}, errors.Wrapf(ErrNotFound, "team %s", strings.TrimSpace(teamID))
	}
	if season == 0 {
		season = selection.DefaultSeason
	}

	compare := club.CoerceTeamID(compareTeamID)
	if compare != "" {
		if _, ok := club.ByID(compare); !ok {
			return analytics.TeamQuery{}, errors.Wrapf(ErrNotFound, "compare team %s", strings.TrimSpace(compareTeamID))
		}
	}
	if compare == id {
		compare = ""
	}
	return analytics.TeamQuery{TeamID: id, Season: season, CompareTeamID: compare}, nil
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/analytics"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/platform/cache"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/viewstate"
)

func dashboardFixture() *dataset.Snapshot {
	return &dataset.Snapshot{
		Roster: []dataset.RosterPlayer{
			{Season: 2025, Team: "Collingwood", ProviderID: "100", PlayerName: "Jack Smith", Age: 24, Games: 50},
			{Season: 2025, Team: "Carlton", ProviderID: "200", PlayerName: "Sam Jones", Age: 31, Games: 210},
		},
		TeamKPIs: []dataset.TeamKPI{
			{Club: "Collingwood", Season: 2024, SquadAgeAvg: 25.1},
			{Club: "Collingwood", Season: 2025, SquadAgeAvg: 25.6},
		},
	}
}

func readyDashboard(t *testing.T, memo *cache.Store) (*DashboardService, viewstate.View) {
	t.Helper()

	store := viewstate.NewStore()
	view := store.Publish(dashboardFixture(), nil)
	return NewDashboardService(store, memo, 2, logging.NewNop()), view
}

func TestDashboardService_TeamDashboard(t *testing.T) {
	t.Parallel()

	memo := cache.NewStore(0)
	svc, _ := readyDashboard(t, memo)

	got, err := svc.TeamDashboard(context.Background(), "COLL", 0, "40")
	if err != nil {
		t.Fatalf("team dashboard: %v", err)
	}
	if got.Team.ID != "40" || got.Season != 2025 {
		t.Fatalf("unexpected dashboard: team=%s season=%d", got.Team.ID, got.Season)
	}
	if got.Compare != nil {
		t.Fatalf("comparing a team with itself must be cleared")
	}
	if memo.Len() != 1 {
		t.Fatalf("unexpected memo size: got=%d want=1", memo.Len())
	}

	if _, err := svc.TeamDashboard(context.Background(), "40", 2025, ""); err != nil {
		t.Fatalf("team dashboard again: %v", err)
	}
	if memo.Len() != 1 {
		t.Fatalf("expected memoized dashboard: got=%d entries", memo.Len())
	}

	withCompare, err := svc.TeamDashboard(context.Background(), "40", 2025, "30")
	if err != nil {
		t.Fatalf("team dashboard compare: %v", err)
	}
	if withCompare.Compare == nil || withCompare.Compare.Team.ID != "30" {
		t.Fatalf("expected compare team 30, got=%+v", withCompare.Compare)
	}
}

func TestDashboardService_TeamDashboardErrors(t *testing.T) {
	t.Parallel()

	svc, _ := readyDashboard(t, nil)
	tests := []struct {
		name    string
		team    string
		compare string
		want    error
	}{
		{name: "empty team", team: " ", want: ErrInvalidInput},
		{name: "unknown team", team: "999", want: ErrNotFound},
		{name: "unknown compare", team: "40", compare: "Nowhere FC", want: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.TeamDashboard(context.Background(), tc.team, 2025, tc.compare)
			if !errors.Is(err, tc.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestDashboardService_NotLoaded(t *testing.T) {
	t.Parallel()

	store := viewstate.NewStore()
	store.Fail(errors.New("blob unavailable"))
	svc := NewDashboardService(store, nil, 0, logging.NewNop())

	_, err := svc.TeamDashboard(context.Background(), "40", 2025, "")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrDependencyUnavailable)
	}
	_, err = svc.PlayerCareer(context.Background(), CareerQuery{PlayerID: "100"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("unexpected career error: got=%v want=%v", err, ErrDependencyUnavailable)
	}
}

func TestDashboardService_PlayerCareerInfersTeam(t *testing.T) {
	t.Parallel()

	memo := cache.NewStore(time.Minute)
	svc, _ := readyDashboard(t, memo)

	got, err := svc.PlayerCareer(context.Background(), CareerQuery{PlayerID: "CD_I200", Outlook: "bogus"})
	if err != nil {
		t.Fatalf("player career: %v", err)
	}
	if got.Team.ID != "30" {
		t.Fatalf("unexpected inferred team: got=%s want=30", got.Team.ID)
	}
	if got.Outlook != analytics.ParseOutlook("") {
		t.Fatalf("unexpected outlook: got=%s", got.Outlook)
	}

	fallback, err := svc.PlayerCareer(context.Background(), CareerQuery{PlayerID: "999"})
	if err != nil {
		t.Fatalf("player career fallback: %v", err)
	}
	if fallback.Team.ID != "40" {
		t.Fatalf("unexpected fallback team: got=%s want=40", fallback.Team.ID)
	}

	if _, err := svc.PlayerCareer(context.Background(), CareerQuery{PlayerID: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrInvalidInput)
	}
	if _, err := svc.PlayerCareer(context.Background(), CareerQuery{PlayerID: "100", TeamID: "999"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrNotFound)
	}
}

func TestDashboardService_WarmRetainsCurrentVersion(t *testing.T) {
	t.Parallel()

	memo := cache.NewStore(0)
	memo.Set(context.Background(), cache.Key(0, "team", "40", "2025", ""), analytics.TeamDashboard{})
	svc, view := readyDashboard(t, memo)

	if err := svc.Warm(context.Background(), view); err != nil {
		t.Fatalf("warm: %v", err)
	}

	want := 0
	for _, team := range svc.Teams() {
		want += len(analytics.YearPills(view.Snapshot.TeamKPIs, team.Key))
	}
	if memo.Len() != want {
		t.Fatalf("unexpected warmed entries: got=%d want=%d", memo.Len(), want)
	}
	if _, ok := memo.Get(context.Background(), cache.Key(0, "team", "40", "2025", "")); ok {
		t.Fatalf("expected stale version to be evicted")
	}
	if _, ok := memo.Get(context.Background(), cache.Key(view.Version, "team", "40", "2024", "")); !ok {
		t.Fatalf("expected collingwood 2024 to be warmed")
	}
}

func TestDashboardService_WarmRequiresSnapshot(t *testing.T) {
	t.Parallel()

	svc := NewDashboardService(viewstate.NewStore(), nil, 1, logging.NewNop())
	if err := svc.Warm(context.Background(), viewstate.View{}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, ErrDependencyUnavailable)
	}
}

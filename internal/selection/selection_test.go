package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/afl-dashboard/internal/analytics"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

func navigate(raw string) State {
	return Reduce(Initial(), Navigate{URL: raw})
}

func TestNavigate_TeamRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url    string
		team   string
		season int
	}{
		{url: "/team/30?season=2024", team: "30", season: 2024},
		{url: "/team/COLL", team: "40", season: DefaultSeason},
		{url: "/team/Sydney%20Swans?season=2023", team: "140", season: 2023},
		{url: "/nowhere?season=2020", team: "40", season: DefaultSeason},
		{url: "/", team: "40", season: DefaultSeason},
	}
	for _, tc := range tests {
		got := navigate(tc.url)
		if got.Page != PageTeam || got.TeamID != tc.team || got.Season != tc.season {
			t.Fatalf("Navigate(%q)=%+v want team=%s season=%d", tc.url, got, tc.team, tc.season)
		}
	}
}

func TestNavigate_NonNumericSeasonKeepsPrevious(t *testing.T) {
	t.Parallel()

	s := navigate("/team/30?season=2022")
	s = Reduce(s, Navigate{URL: "/team/30?season=abc"})
	if s.Season != 2022 {
		t.Fatalf("unexpected season: got=%d want=2022", s.Season)
	}
}

func TestNavigate_PlayerRoute(t *testing.T) {
	t.Parallel()

	s := navigate("/player/CD_I123?team=CARL&season=2024")
	if s.Page != PageCareer || s.PlayerID != "123" || s.TeamID != "30" {
		t.Fatalf("unexpected state: %+v", s)
	}
	if !s.PlayerTeamResolved || !s.ExplicitTeam {
		t.Fatalf("expected explicit resolved team: %+v", s)
	}

	s = Reduce(s, Navigate{URL: "/player/456"})
	if s.PlayerTeamResolved || s.ExplicitTeam {
		t.Fatalf("new player without team must be unresolved: %+v", s)
	}
	if s.TeamID != "30" {
		t.Fatalf("team should be kept until inferred: got=%s", s.TeamID)
	}
}

func TestReduce_TeamChangeClearsCompareTeam(t *testing.T) {
	t.Parallel()

	s := navigate("/team/40")
	s = Reduce(s, SetCompareTeam{TeamID: "30"})
	if s.CompareTeamID != "30" {
		t.Fatalf("unexpected compare team: %q", s.CompareTeamID)
	}

	s = Reduce(s, SetSeason{Season: 2024})
	if s.CompareTeamID != "30" {
		t.Fatalf("season change must keep compare team")
	}

	s = Reduce(s, SetTeam{TeamID: "50"})
	if s.CompareTeamID != "" {
		t.Fatalf("team change must clear compare team: %+v", s)
	}
}

func TestReduce_ComparePlayerEqualToPlayerCleared(t *testing.T) {
	t.Parallel()

	s := navigate("/player/100")
	s = Reduce(s, SetComparePlayer{PlayerID: "CD_I100"})
	if s.ComparePlayerID != "" {
		t.Fatalf("self compare must be cleared: %+v", s)
	}

	s = Reduce(s, SetComparePlayer{PlayerID: "200"})
	s = Reduce(s, SelectPlayer{PlayerID: "200"})
	if s.ComparePlayerID != "" {
		t.Fatalf("selecting the compare player must clear it: %+v", s)
	}
}

func TestReduce_OutlookAndInferTeam(t *testing.T) {
	t.Parallel()

	s := navigate("/player/100")
	s = Reduce(s, SetOutlook{Outlook: "optimistic"})
	if s.Outlook != analytics.OutlookOptimistic {
		t.Fatalf("unexpected outlook: %s", s.Outlook)
	}
	s = Reduce(s, SetOutlook{Outlook: "wild"})
	if s.Outlook != analytics.OutlookNeutral {
		t.Fatalf("unknown outlook should fall back to neutral: %s", s.Outlook)
	}

	s = Reduce(s, InferTeam{TeamID: "140"})
	if s.TeamID != "140" || !s.PlayerTeamResolved {
		t.Fatalf("unexpected inferred state: %+v", s)
	}

	team := Reduce(navigate("/team/40"), InferTeam{TeamID: "140"})
	if team.TeamID != "40" {
		t.Fatalf("team page must ignore inference: %+v", team)
	}
}

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		want  string
		ok    bool
	}{
		{
			name:  "team page",
			state: State{Page: PageTeam, TeamID: "30", Season: 2024},
			want:  "/team/30?season=2024",
			ok:    true,
		},
		{
			name:  "unresolved player",
			state: State{Page: PageCareer, TeamID: "40", PlayerID: "123", Season: 2025},
			want:  "/player/123?season=2025",
			ok:    true,
		},
		{
			name:  "resolved player",
			state: State{Page: PageCareer, TeamID: "30", PlayerID: "123", Season: 2025, PlayerTeamResolved: true},
			want:  "/player/123?team=30&season=2025",
			ok:    true,
		},
		{
			name:  "career without player",
			state: State{Page: PageCareer, TeamID: "30", Season: 2025},
			ok:    false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CanonicalURL(tc.state)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("CanonicalURL()=(%q,%v) want=(%q,%v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMachine_ReplacesToCanonical(t *testing.T) {
	t.Parallel()

	var replaced []string
	m := NewMachine("/foo", func(url string) { replaced = append(replaced, url) })

	if diff := cmp.Diff([]string{"/team/40?season=2025"}, replaced); diff != "" {
		t.Fatalf("unexpected replacements (-want +got):\n%s", diff)
	}

	m.Dispatch(SetSeason{Season: 2023})
	if m.URL() != "/team/40?season=2023" {
		t.Fatalf("unexpected url: %s", m.URL())
	}

	m.Dispatch(Navigate{URL: "/team/40?season=2023"})
	if len(replaced) != 2 {
		t.Fatalf("canonical url must not be replaced again: %v", replaced)
	}
}

func TestMachine_DropsNavigateDuringReplace(t *testing.T) {
	t.Parallel()

	var m *Machine
	calls := 0
	m = NewMachine("/team/30?season=2024", func(url string) {
		calls++
		m.Dispatch(Navigate{URL: "/team/50"})
	})

	m.Dispatch(SetTeam{TeamID: "70"})
	if calls != 1 {
		t.Fatalf("unexpected replace calls: %d", calls)
	}
	if got := m.State(); got.TeamID != "70" {
		t.Fatalf("re-entrant navigate must be dropped: %+v", got)
	}
	if m.URL() != "/team/70?season=2024" {
		t.Fatalf("unexpected url: %s", m.URL())
	}
}

func TestMachine_CareerWithoutPlayerKeepsURL(t *testing.T) {
	t.Parallel()

	calls := 0
	m := NewMachine("/player/%20", func(string) { calls++ })
	if calls != 0 {
		t.Fatalf("career page without player must not replace: %d", calls)
	}
	if m.State().Page != PageCareer {
		t.Fatalf("unexpected page: %s", m.State().Page)
	}
}

func TestInferTeamFromRoster(t *testing.T) {
	t.Parallel()

	roster := []dataset.RosterPlayer{
		{Season: 2024, Team: "Geelong", ProviderID: "100"},
		{Season: 2025, Team: "Sydney Swans", ProviderID: "100"},
		{Season: 2025, Team: "Nowhere FC", ProviderID: "200"},
	}

	if id, ok := InferTeamFromRoster(roster, "CD_I100", 2025); !ok || id != "140" {
		t.Fatalf("unexpected team: (%s,%v)", id, ok)
	}
	if id, ok := InferTeamFromRoster(roster, "100", 2024); !ok || id != "70" {
		t.Fatalf("unexpected team: (%s,%v)", id, ok)
	}
	if _, ok := InferTeamFromRoster(roster, "200", 2025); ok {
		t.Fatalf("unknown club must not resolve")
	}
	if _, ok := InferTeamFromRoster(roster, "100", 2019); ok {
		t.Fatalf("missing season must not resolve")
	}
}

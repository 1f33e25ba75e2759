package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

func careerFixture() []dataset.CareerProjection {
	return []dataset.CareerProjection{
		{SourceProviderID: "100", SourcePlayer: "Jordan Reed", SourcePosition: "Mid", Team: "40", Season: 2024, Horizon: 0, Type: "Actual",
			Estimate: f(10), Lower: f(9), Upper: f(11), Salary: f(100000), Height: "188cm", Age: "24", Drafted: "2018 ND",
			Stats: map[dataset.StatKey]float64{dataset.StatKicking: 20}},
		{SourceProviderID: "100", SourcePlayer: "Jordan Reed", SourcePosition: "Mid", Team: "40", Season: 2025, Horizon: 1, Type: "Projected",
			Estimate: f(11), Optimistic: f(13), Pessimistic: f(9), Lower: f(10), Upper: f(12), Salary: f(200000), SalaryOpt: f(260000),
			Seasons: f(2), Season90: f(3), AA: f(0.3)},
		{SourceProviderID: "100", SourcePlayer: "Jordan Reed", SourcePosition: "Mid", Team: "40", Season: 2026, Horizon: 2, Type: "Projected",
			Estimate: f(12), Lower: f(10), Upper: f(14), Salary: f(220000), Seasons: f(2), Season90: f(3)},
		{SourceProviderID: "100", SourcePlayer: "Jordan Reed", SourcePosition: "Mid", Team: "40", Season: 2027, Horizon: 3, Type: "Projected",
			Estimate: f(12.5), Salary: f(230000), Seasons: f(2), Season90: f(3)},
		{SourceProviderID: "200", SourcePlayer: "Alex Stone", SourcePosition: "Mid", Team: "Collingwood", Season: 2024, Type: "Actual",
			Estimate: f(12), Stats: map[dataset.StatKey]float64{dataset.StatKicking: 10}},
		{SourceProviderID: "300", SourcePlayer: "Sam Vale", SourcePosition: "Fwd", Team: "Carlton", Season: 2024, Type: "hist",
			Estimate: f(8), Stats: map[dataset.StatKey]float64{dataset.StatKicking: 30}},
		{SourceProviderID: "400", SourcePlayer: "Chris Moss", SourcePosition: "Fwd", Season: 2024, Type: "Projected",
			Estimate: f(50), Stats: map[dataset.StatKey]float64{dataset.StatKicking: 99}},
	}
}

func TestClubPlayers_FiltersByTeamIDOrName(t *testing.T) {
	t.Parallel()

	got := ClubPlayers(careerFixture(), "Collingwood")
	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"Alex Stone", "Chris Moss", "Jordan Reed"}, names); diff != "" {
		t.Fatalf("unexpected club players (-want +got):\n%s", diff)
	}
	if len(ClubPlayers(careerFixture(), "Richmond")) != 1 {
		t.Fatalf("expected only the team-less row to match an unrelated club")
	}
	if len(AllPlayers(careerFixture())) != 4 {
		t.Fatalf("unexpected all players count")
	}
}

func TestSelectPlayer(t *testing.T) {
	t.Parallel()

	players := []PlayerRef{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}
	if p, _ := SelectPlayer(players, "2"); p.ID != "2" {
		t.Fatalf("expected requested player, got=%+v", p)
	}
	if p, _ := SelectPlayer(players, "9"); p.ID != "1" {
		t.Fatalf("expected first player fallback, got=%+v", p)
	}
	if _, ok := SelectPlayer(nil, "1"); ok {
		t.Fatalf("expected no selection on empty list")
	}
}

func TestTrajectory_CutoffByOutlook(t *testing.T) {
	t.Parallel()

	neutral := Trajectory(careerFixture(), "100", OutlookNeutral)
	if len(neutral) != 3 {
		t.Fatalf("unexpected neutral length: got=%d want=3", len(neutral))
	}
	optimistic := Trajectory(careerFixture(), "100", OutlookOptimistic)
	if len(optimistic) != 4 {
		t.Fatalf("unexpected optimistic length: got=%d want=4", len(optimistic))
	}
}

func TestTrajectory_OutlookChangesProjectedOnly(t *testing.T) {
	t.Parallel()

	neutral := Trajectory(careerFixture(), "100", OutlookNeutral)
	optimistic := Trajectory(careerFixture(), "100", OutlookOptimistic)
	pessimistic := Trajectory(careerFixture(), "100", OutlookPessimistic)

	if diff := cmp.Diff(neutral[0], optimistic[0]); diff != "" {
		t.Fatalf("actual point changed with outlook (-neutral +optimistic):\n%s", diff)
	}
	if *neutral[0].Actual != 10 || neutral[0].Estimate != nil {
		t.Fatalf("unexpected actual point: %+v", neutral[0])
	}
	if *neutral[1].Estimate != 11 || *optimistic[1].Estimate != 13 || *pessimistic[1].Estimate != 9 {
		t.Fatalf("unexpected projected estimates: %v %v %v", *neutral[1].Estimate, *optimistic[1].Estimate, *pessimistic[1].Estimate)
	}
	if *optimistic[1].Salary != 260000 || *pessimistic[1].Salary != 200000 {
		t.Fatalf("unexpected projected salaries: %v %v", *optimistic[1].Salary, *pessimistic[1].Salary)
	}
	if *optimistic[2].Estimate != 12 {
		t.Fatalf("expected neutral fallback without optimistic value, got=%v", *optimistic[2].Estimate)
	}
	if neutral[1].Band == nil || *neutral[1].Band != 2 {
		t.Fatalf("unexpected band: %v", neutral[1].Band)
	}
}

func TestMergeTrajectories_Bridge(t *testing.T) {
	t.Parallel()

	primary := Trajectory(careerFixture(), "100", OutlookNeutral)
	compare := Trajectory(careerFixture(), "200", OutlookNeutral)
	merged := MergeTrajectories(primary, compare)

	if len(merged) != 3 {
		t.Fatalf("unexpected merged length: %d", len(merged))
	}
	if merged[0].Bridge == nil || *merged[0].Bridge != 10 {
		t.Fatalf("unexpected bridge at last actual: %+v", merged[0].Bridge)
	}
	if merged[1].Bridge == nil || *merged[1].Bridge != 11 {
		t.Fatalf("unexpected bridge at first projection: %+v", merged[1].Bridge)
	}
	if merged[2].Bridge != nil {
		t.Fatalf("unexpected bridge beyond first projection: %v", *merged[2].Bridge)
	}
	if merged[0].CActual == nil || *merged[0].CActual != 12 {
		t.Fatalf("unexpected compare actual: %+v", merged[0])
	}
}

func TestYDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		points []ChartPoint
		want   [2]int
	}{
		{name: "empty", points: nil, want: [2]int{4, 20}},
		{
			name: "bands and values",
			points: []ChartPoint{
				{Season: 2024, Actual: f(10), Lower0: f(9), Band: f(4)},
				{Season: 2025, Estimate: f(11)},
			},
			want: [2]int{6, 16},
		},
		{
			name:   "compare series widens",
			points: []ChartPoint{{Season: 2024, Actual: f(10), CActual: f(20.5)}},
			want:   [2]int{7, 24},
		},
		{
			name:   "floor at one",
			points: []ChartPoint{{Season: 2024, Actual: f(1)}},
			want:   [2]int{1, 4},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := YDomain(tc.points); got != tc.want {
				t.Fatalf("unexpected domain: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestLastActualAndNextProjection(t *testing.T) {
	t.Parallel()

	traj := Trajectory(careerFixture(), "100", OutlookNeutral)
	if last := LastActual(traj); last == nil || last.Season != 2024 {
		t.Fatalf("unexpected last actual: %+v", last)
	}
	if next := NextProjection(traj); next == nil || next.Season != 2025 {
		t.Fatalf("unexpected next projection: %+v", next)
	}

	projectedOnly := []TrajectoryPoint{{Season: 2025, Estimate: f(5), Band: f(1)}, {Season: 2026, Estimate: f(6)}}
	if last := LastActual(projectedOnly); last == nil || last.Season != 2026 {
		t.Fatalf("expected last unbanded estimate, got=%+v", last)
	}
	if LastActual(nil) != nil {
		t.Fatalf("expected nil for empty trajectory")
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	sorted := []float64{10, 20, 20, 30}
	tests := []struct {
		v    float64
		want float64
	}{
		{v: 20, want: 50},
		{v: 5, want: 0},
		{v: 35, want: 100},
		{v: 10, want: 12.5},
	}
	for _, tc := range tests {
		got := Percentile(tc.v, sorted)
		if got == nil || *got != tc.want {
			t.Fatalf("Percentile(%v)=%v want=%v", tc.v, got, tc.want)
		}
	}
	if Percentile(1, nil) != nil {
		t.Fatalf("expected nil percentile for empty distribution")
	}
}

func TestBuildDistributions_PrefersActualRows(t *testing.T) {
	t.Parallel()

	rows := []dataset.CareerProjection{
		{SourceProviderID: "1", Season: 2024, Type: "Projected", Stats: map[dataset.StatKey]float64{dataset.StatAerial: 99}},
		{SourceProviderID: "1", Season: 2024, Type: "Actual", Stats: map[dataset.StatKey]float64{dataset.StatAerial: 5}},
		{SourceProviderID: "2", Season: 2024, Type: "Actual", Stats: map[dataset.StatKey]float64{dataset.StatAerial: 3}},
	}
	dist := BuildDistributions(rows)
	if diff := cmp.Diff([]float64{3, 5}, dist[2024][dataset.StatAerial]); diff != "" {
		t.Fatalf("unexpected distribution (-want +got):\n%s", diff)
	}
	if got := dist[2024][dataset.StatKicking]; got == nil || len(got) != 0 {
		t.Fatalf("expected empty bucket for missing metric, got=%v", got)
	}
}

func TestAdvancedSkillRows(t *testing.T) {
	t.Parallel()

	rows := careerFixture()
	traj := Trajectory(rows, "100", OutlookNeutral)
	got := AdvancedSkillRows(traj, BuildDistributions(rows))
	if len(got) != 15 {
		t.Fatalf("unexpected row count: %d", len(got))
	}
	if got[1].Label != "Kicking" || got[1].P == nil || *got[1].P != 37.5 {
		t.Fatalf("unexpected kicking percentile: %+v", got[1])
	}
	if got[0].P != nil {
		t.Fatalf("expected nil percentile for missing stat, got=%v", *got[0].P)
	}
}

func statsFor(n int) []dataset.PlayerStatsAgg {
	var rows []dataset.PlayerStatsAgg
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		rows = append(rows,
			dataset.PlayerStatsAgg{Season: 2024, PlayerID: id, MetricName: "Disposals", Category: "Ball Use", MetricValue: float64(i)},
			dataset.PlayerStatsAgg{Season: 2024, PlayerID: id, MetricName: "Clearances", Category: "Stoppage", MetricValue: float64(i)},
			dataset.PlayerStatsAgg{Season: 2024, PlayerID: id, MetricName: "Kicks", Category: "Ball Use", MetricValue: float64(n - i)},
		)
	}
	return rows
}

func TestPlayerCompare_SampleThreshold(t *testing.T) {
	t.Parallel()

	if got := PlayerCompare(statsFor(7), 2024, "a", "b"); len(got) != 0 {
		t.Fatalf("expected no groups below sample threshold, got=%+v", got)
	}

	got := PlayerCompare(statsFor(8), 2024, "a", "b")
	if len(got) != 2 || got[0].Category != "Ball Use" || got[1].Category != "Stoppage" {
		t.Fatalf("unexpected groups: %+v", got)
	}
	if got[0].Rows[0].Metric != "Disposals" || got[0].Rows[1].Metric != "Kicks" {
		t.Fatalf("unexpected row order: %+v", got[0].Rows)
	}
	row := got[0].Rows[0]
	if row.A != 6.25 || row.B != 18.75 || row.Diff != -12.5 {
		t.Fatalf("unexpected percentiles: %+v", row)
	}
	if len(PlayerCompare(statsFor(8), 2025, "a", "b")) != 0 {
		t.Fatalf("expected no groups for another season")
	}
}

func TestOutcomes(t *testing.T) {
	t.Parallel()

	traj := Trajectory(careerFixture(), "100", OutlookNeutral)
	projections := []dataset.PlayerProjection{{PlayerID: "100", AA: 150, Games: 45}}
	got := Outcomes(projections, "100", traj)
	if got.Games == nil || *got.Games != 0.45 {
		t.Fatalf("unexpected games probability: %v", got.Games)
	}
	if got.AA == nil || *got.AA != 0.3 {
		t.Fatalf("expected AA from horizon 1 trajectory, got=%v", got.AA)
	}
	if none := Outcomes(nil, "999", nil); none.AA != nil || none.Games != nil {
		t.Fatalf("expected nil probabilities, got=%+v", none)
	}
}

func TestRank_ComputedAndDirect(t *testing.T) {
	t.Parallel()

	rows := careerFixture()
	traj := Trajectory(rows, "100", OutlookNeutral)
	got := Rank(rows, "100", LastActual(traj))
	if got.All == nil || *got.All != 2 || got.TotalAll == nil || *got.TotalAll != 3 {
		t.Fatalf("unexpected overall rank: %+v", got)
	}
	if got.Pos == nil || *got.Pos != 2 || got.TotalPos == nil || *got.TotalPos != 2 {
		t.Fatalf("unexpected positional rank: %+v", got)
	}

	rows[0].RankAll = f(7)
	direct := Rank(rows, "100", LastActual(traj))
	if direct.All == nil || *direct.All != 7 || direct.Pos != nil {
		t.Fatalf("expected direct rank to win, got=%+v", direct)
	}
}

func TestCareerKPIs(t *testing.T) {
	t.Parallel()

	rows := careerFixture()
	traj := Trajectory(rows, "100", OutlookNeutral)
	got := CareerKPIs(rows, "100", traj, Rank(rows, "100", LastActual(traj)))

	want := []KPICard{
		{Label: "Market Value", Value: "$200k", Sub: "Career value: $420,000"},
		{Label: "Rank (AFL)", Value: "2nd", Sub: "out of 3 players"},
		{Label: "Rank (Position)", Value: "2nd", Sub: "out of 2 position players"},
		{Label: "Vitals", Value: "188cm", Sub: "Age 24 • 2018 ND"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected career cards (-want +got):\n%s", diff)
	}

	empty := CareerKPIs(nil, "", nil, RankInfo{})
	if empty[0].Value != Placeholder || empty[3].Sub != "Age — • Draft —" {
		t.Fatalf("unexpected empty cards: %+v", empty)
	}
}

func TestBuildPlayerCareer_ClearsSelfCompare(t *testing.T) {
	t.Parallel()

	snap := &dataset.Snapshot{CareerProjections: careerFixture()}
	got := BuildPlayerCareer(snap, nil, CareerQuery{PlayerID: "100", TeamID: "40", ComparePlayerID: "100"})
	if got.Player == nil || got.Player.ID != "100" {
		t.Fatalf("unexpected player: %+v", got.Player)
	}
	if got.Compare != nil {
		t.Fatalf("expected compare to be cleared when equal to player")
	}
	if got.SnapshotSeason == nil || *got.SnapshotSeason != 2024 {
		t.Fatalf("unexpected snapshot season: %v", got.SnapshotSeason)
	}

	withCompare := BuildPlayerCareer(snap, nil, CareerQuery{PlayerID: "100", TeamID: "40", ComparePlayerID: "300"})
	if withCompare.Compare == nil || withCompare.Compare.Player.ID != "300" {
		t.Fatalf("expected compare player, got=%+v", withCompare.Compare)
	}
	if withCompare.Compare.Color != "#001F5B" {
		t.Fatalf("unexpected compare color: %q", withCompare.Compare.Color)
	}
}

func TestBuildTeamDashboard_Compare(t *testing.T) {
	t.Parallel()

	snap := &dataset.Snapshot{
		TeamKPIs: []dataset.TeamKPI{{Club: "Collingwood", Season: 2025, SquadAgeAvg: 26}, {Club: "Carlton", Season: 2025, SquadAgeAvg: 25}},
	}
	got := BuildTeamDashboard(snap, TeamQuery{TeamID: "40", Season: 2025, CompareTeamID: "30"})
	if got.Team.Name != "Collingwood" || got.Compare == nil || got.Compare.Team.Name != "Carlton" {
		t.Fatalf("unexpected teams: %+v / %+v", got.Team, got.Compare)
	}
	if d := got.Compare.Tables.Scalars[0].Diff; d == nil || *d != 1 {
		t.Fatalf("unexpected age diff: %v", d)
	}
	if len(got.AgeHistogram) != 18 {
		t.Fatalf("unexpected histogram length: %d", len(got.AgeHistogram))
	}
}

package analytics

import (
	"slices"
	"strings"

	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// TeamSide is one team's already-derived view used in a head-to-head table.
type TeamSide struct {
	KPI         *dataset.TeamKPI
	AgeShares   []AgeShare
	Acquisition []ShareRow
	Radar       []RadarAxis
}

type ScalarRow struct {
	Metric string   `json:"metric"`
	A      *float64 `json:"a"`
	B      *float64 `json:"b"`
	Diff   *float64 `json:"diff"`
}

type CompareRow struct {
	Metric string  `json:"metric"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	Diff   float64 `json:"diff"`
}

type TeamComparison struct {
	Scalars     []ScalarRow  `json:"scalars"`
	AgeDrivers  []CompareRow `json:"ageDrivers"`
	Acquisition []CompareRow `json:"acquisition"`
	Radar       []CompareRow `json:"radar"`
}

// CompareTeams builds the four comparison groups. Metrics missing on one side count as zero.
func CompareTeams(a, b TeamSide) TeamComparison {
	kpiField := func(k *dataset.TeamKPI, f func(dataset.TeamKPI) float64) *float64 {
		if k == nil {
			return nil
		}
		return ptr(f(*k))
	}
	scalar := func(metric string, f func(dataset.TeamKPI) float64) ScalarRow {
		row := ScalarRow{Metric: metric, A: kpiField(a.KPI, f), B: kpiField(b.KPI, f)}
		if row.A != nil && row.B != nil {
			row.Diff = ptr(*row.A - *row.B)
		}
		return row
	}

	out := TeamComparison{
		Scalars: []ScalarRow{
			scalar("Age", func(k dataset.TeamKPI) float64 { return k.SquadAgeAvg }),
			scalar("Experience", func(k dataset.TeamKPI) float64 { return k.SquadExperienceAvgGames }),
			scalar("Turnover", func(k dataset.TeamKPI) float64 { return k.SquadTurnoverPlayers }),
		},
	}

	ageA, ageB := map[string]float64{}, map[string]float64{}
	for _, s := range a.AgeShares {
		ageA[s.Category] = s.Pct
	}
	for _, s := range b.AgeShares {
		ageB[s.Category] = s.Pct
	}
	cats := union(keys(a.AgeShares, func(s AgeShare) string { return s.Category }), keys(b.AgeShares, func(s AgeShare) string { return s.Category }), club.AgeCategoryOrder)
	slices.SortStableFunc(cats, func(x, y string) int {
		ix, iy := club.AgeCategoryIndex(x), club.AgeCategoryIndex(y)
		switch {
		case ix == -1 && iy == -1:
			return strings.Compare(x, y)
		case ix == -1:
			return 1
		case iy == -1:
			return -1
		default:
			return ix - iy
		}
	})
	out.AgeDrivers = compareRows(cats, ageA, ageB)

	acqA, acqB := map[string]float64{}, map[string]float64{}
	for _, s := range a.Acquisition {
		acqA[s.Metric] = s.Value
	}
	for _, s := range b.Acquisition {
		acqB[s.Metric] = s.Value
	}
	acqCats := union(keys(a.Acquisition, func(s ShareRow) string { return s.Metric }), keys(b.Acquisition, func(s ShareRow) string { return s.Metric }))
	slices.Sort(acqCats)
	out.Acquisition = compareRows(acqCats, acqA, acqB)

	radA, radB := map[string]float64{}, map[string]float64{}
	for _, r := range a.Radar {
		radA[r.Metric] = r.Value
	}
	for _, r := range b.Radar {
		radB[r.Metric] = r.Value
	}
	radarCats := union(keys(a.Radar, func(r RadarAxis) string { return r.Metric }), keys(b.Radar, func(r RadarAxis) string { return r.Metric }))
	out.Radar = compareRows(radarCats, radA, radB)

	return out
}

func compareRows(metrics []string, a, b map[string]float64) []CompareRow {
	out := make([]CompareRow, 0, len(metrics))
	for _, m := range metrics {
		av, bv := a[m], b[m]
		out = append(out, CompareRow{Metric: m, A: av, B: bv, Diff: av - bv})
	}
	return out
}

func keys[T any](items []T, key func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, key(it))
	}
	return out
}

// union keeps first-seen order and drops empty names.
func union(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range lists {
		for _, v := range l {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

package normalize

import (
	"fmt"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// Result is one normalized dataset ready to be placed into a snapshot.
type Result struct {
	Kind    dataset.Kind
	Kept    int
	Dropped int

	apply func(*dataset.Snapshot)
}

// ApplyTo stores the typed rows on the matching snapshot field.
func (r Result) ApplyTo(s *dataset.Snapshot) {
	if s == nil || r.apply == nil {
		return
	}
	r.apply(s)
}

// Dataset maps raw rows of kind to typed rows. Rows missing a required field are dropped and counted.
func Dataset(kind dataset.Kind, rows []dataset.RawRow) (Result, error) {
	switch kind {
	case dataset.KindRoster:
		return collect(kind, rows, Roster, func(s *dataset.Snapshot, v []dataset.RosterPlayer) { s.Roster = v }), nil
	case dataset.KindTeamKPI:
		return collect(kind, rows, TeamKPI, func(s *dataset.Snapshot, v []dataset.TeamKPI) { s.TeamKPIs = v }), nil
	case dataset.KindRankSeries:
		return collect(kind, rows, RankSeries, func(s *dataset.Snapshot, v []dataset.RankSeries) { s.RankSeries = v }), nil
	case dataset.KindSkillRadar:
		return collect(kind, rows, SkillRadar, func(s *dataset.Snapshot, v []dataset.SkillRadar) { s.SkillRadar = v }), nil
	case dataset.KindAcquisition:
		return collect(kind, rows, Acquisition, func(s *dataset.Snapshot, v []dataset.Acquisition) { s.Acquisitions = v }), nil
	case dataset.KindPlayerProjection:
		return collect(kind, rows, PlayerProjection, func(s *dataset.Snapshot, v []dataset.PlayerProjection) { s.PlayerProjections = v }), nil
	case dataset.KindAFLForm:
		return collect(kind, rows, AFLForm, func(s *dataset.Snapshot, v []dataset.AFLForm) { s.AFLForm = v }), nil
	case dataset.KindVFLForm:
		return collect(kind, rows, VFLForm, func(s *dataset.Snapshot, v []dataset.VFLForm) { s.VFLForm = v }), nil
	case dataset.KindCareerProjection:
		return collect(kind, rows, CareerProjection, func(s *dataset.Snapshot, v []dataset.CareerProjection) { s.CareerProjections = v }), nil
	case dataset.KindPlayerStatsAgg:
		return collect(kind, rows, PlayerStatsAgg, func(s *dataset.Snapshot, v []dataset.PlayerStatsAgg) { s.PlayerStats = v }), nil
	default:
		return Result{}, fmt.Errorf("unknown dataset kind %q", kind)
	}
}

func collect[T any](kind dataset.Kind, rows []dataset.RawRow, mapRow func(dataset.RawRow) (T, bool), set func(*dataset.Snapshot, []T)) Result {
	out := make([]T, 0, len(rows))
	dropped := 0
	for _, raw := range rows {
		v, ok := mapRow(raw)
		if !ok {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return Result{
		Kind:    kind,
		Kept:    len(out),
		Dropped: dropped,
		apply:   func(s *dataset.Snapshot) { set(s, out) },
	}
}

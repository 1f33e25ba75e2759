package dataset

// Snapshot is an immutable set of the ten normalized datasets. Callers must not
// mutate the slices once a snapshot is published.
type Snapshot struct {
	Roster            []RosterPlayer
	TeamKPIs          []TeamKPI
	RankSeries        []RankSeries
	SkillRadar        []SkillRadar
	Acquisitions      []Acquisition
	PlayerProjections []PlayerProjection
	AFLForm           []AFLForm
	VFLForm           []VFLForm
	CareerProjections []CareerProjection
	PlayerStats       []PlayerStatsAgg
}

// Counts reports the number of rows held per dataset.
func (s *Snapshot) Counts() map[Kind]int {
	if s == nil {
		return map[Kind]int{}
	}
	return map[Kind]int{
		KindRoster:           len(s.Roster),
		KindTeamKPI:          len(s.TeamKPIs),
		KindRankSeries:       len(s.RankSeries),
		KindSkillRadar:       len(s.SkillRadar),
		KindAcquisition:      len(s.Acquisitions),
		KindPlayerProjection: len(s.PlayerProjections),
		KindAFLForm:          len(s.AFLForm),
		KindVFLForm:          len(s.VFLForm),
		KindCareerProjection: len(s.CareerProjections),
		KindPlayerStatsAgg:   len(s.PlayerStats),
	}
}

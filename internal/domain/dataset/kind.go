package dataset

import (
	"context"
	"errors"
	"strings"
)

var ErrFileNotAllowed = errors.New("file is not an allowed dataset")

// Kind identifies one of the ten dashboard datasets.
type Kind string

const (
	KindRoster           Kind = "roster_players"
	KindTeamKPI          Kind = "team_kpis"
	KindRankSeries       Kind = "team_rank_timeseries"
	KindSkillRadar       Kind = "team_skill_radar"
	KindAcquisition      Kind = "player_acquisition_breakdown"
	KindPlayerProjection Kind = "player_projections"
	KindAFLForm          Kind = "form_player_afl"
	KindVFLForm          Kind = "form_player_vfl"
	KindCareerProjection Kind = "career_projections"
	KindPlayerStatsAgg   Kind = "CD_player_stats_agg"
)

// Kinds lists every dataset in load order.
var Kinds = []Kind{
	KindRoster,
	KindTeamKPI,
	KindRankSeries,
	KindSkillRadar,
	KindAcquisition,
	KindPlayerProjection,
	KindAFLForm,
	KindVFLForm,
	KindCareerProjection,
	KindPlayerStatsAgg,
}

// Files returns the candidate blob names for the dataset, tried in order.
func (k Kind) Files() []string {
	if k == KindPlayerProjection {
		return []string{"player_projection.csv", "player_projections.csv"}
	}
	return []string{string(k) + ".csv"}
}

var allowedFiles = map[string]struct{}{
	"roster_players.csv":               {},
	"team_kpis.csv":                    {},
	"team_rank_timeseries.csv":         {},
	"team_skill_radar.csv":             {},
	"player_acquisition_breakdown.csv": {},
	"player_projections.csv":           {},
	"form_player_afl.csv":              {},
	"form_player_vfl.csv":              {},
	"career_projections.csv":           {},
	"CD_player_stats_agg.csv":          {},
}

// IsAllowed reports whether file is one of the ten published CSV names.
func IsAllowed(file string) bool {
	_, ok := allowedFiles[strings.TrimSpace(file)]
	return ok
}

// RawRow is one untyped CSV record keyed by header. Values are float64, bool, string or nil.
type RawRow = map[string]any

// Source fetches the rows of one dataset file.
type Source interface {
	Fetch(ctx context.Context, file string) ([]RawRow, error)
}

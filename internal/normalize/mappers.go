package normalize

import (
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

func Roster(raw dataset.RawRow) (dataset.RosterPlayer, bool) {
	rec, ok := rosterSchema.resolve(raw)
	if !ok {
		return dataset.RosterPlayer{}, false
	}
	return dataset.RosterPlayer{
		Season:        rec.integer("season"),
		Team:          rec.text("team"),
		ProviderID:    rec.text("providerId"),
		PlayerName:    rec.text("player_name"),
		Age:           rec.numOr("age", 0),
		PositionGroup: rec.text("position_group"),
		Games:         rec.numOr("games", 0),
		Ratings:       rec.numOr("ratings", 0),
		AgeCategory:   rec.text("age_cat"),
	}, true
}

func TeamKPI(raw dataset.RawRow) (dataset.TeamKPI, bool) {
	rec, ok := teamKPISchema.resolve(raw)
	if !ok {
		return dataset.TeamKPI{}, false
	}
	return dataset.TeamKPI{
		Club:                    rec.text("Club"),
		Season:                  rec.integer("season"),
		SquadAgeAvg:             rec.numOr("squad_age_avg", 0),
		SquadAgeYoY:             rec.numPtr("squad_age_yoy"),
		SquadExperienceAvgGames: rec.numOr("squad_experience_avg_games", 0),
		SquadExperienceYoY:      rec.numPtr("squad_experience_yoy"),
		SquadTurnoverPlayers:    rec.numOr("squad_turnover_players", 0),
		SquadTurnoverYoY:        rec.numPtr("squad_turnover_yoy"),
	}, true
}

func RankSeries(raw dataset.RawRow) (dataset.RankSeries, bool) {
	rec, ok := rankSeriesSchema.resolve(raw)
	if !ok {
		return dataset.RankSeries{}, false
	}
	return dataset.RankSeries{
		Club:          rec.text("Club"),
		Year:          rec.integer("year"),
		ActualRank:    rec.numPtr("actual_rank"),
		ForecastARank: rec.numPtr("forecast_a_rank"),
		ForecastBRank: rec.numPtr("forecast_b_rank"),
		Finish1P10:    rec.numPtr("finish_1_p10"),
		Finish1P25:    rec.numPtr("finish_1_p25"),
		Finish1P75:    rec.numPtr("finish_1_p75"),
		Finish1P90:    rec.numPtr("finish_1_p90"),
		Finish2P10:    rec.numPtr("finish_2_p10"),
		Finish2P25:    rec.numPtr("finish_2_p25"),
		Finish2P75:    rec.numPtr("finish_2_p75"),
		Finish2P90:    rec.numPtr("finish_2_p90"),
	}, true
}

// SkillRadar defaults absent metrics to zero.
func SkillRadar(raw dataset.RawRow) (dataset.SkillRadar, bool) {
	rec, ok := skillRadarSchema.resolve(raw)
	if !ok {
		return dataset.SkillRadar{}, false
	}
	return dataset.SkillRadar{
		Season:        rec.text("season"),
		SquadName:     rec.text("squad_name"),
		KHRatio:       rec.numOr("KH_Ratio", 0),
		GBMKRatio:     rec.numOr("GB_MK_Ratio", 0),
		FwdHalf:       rec.numOr("Fwd_Half", 0),
		Scores:        rec.numOr("Scores", 0),
		PPChain:       rec.numOr("PPchain", 0),
		PointsPerI50:  rec.numOr("Points_per_I50", 0),
		RepeatI50s:    rec.numOr("Repeat_I50s", 0),
		RatingBallUse: rec.numOr("Rating_Ball_Use", 0),
		RatingBallWin: rec.numOr("Rating_Ball_Win", 0),
		ChainMetres:   rec.numOr("Chain_Metres", 0),
		TimeInPossPct: rec.numOr("Time_in_Poss_Pct", 0),
	}, true
}

func Acquisition(raw dataset.RawRow) (dataset.Acquisition, bool) {
	rec, ok := acquisitionSchema.resolve(raw)
	if !ok {
		return dataset.Acquisition{}, false
	}
	return dataset.Acquisition{
		Club:  rec.text("Club"),
		Year:  rec.integer("Year"),
		Draft: rec.text("Draft"),
		Value: rec.numOr("value", 0),
	}, true
}

func PlayerProjection(raw dataset.RawRow) (dataset.PlayerProjection, bool) {
	rec, ok := playerProjectionSchema.resolve(raw)
	if !ok {
		return dataset.PlayerProjection{}, false
	}
	return dataset.PlayerProjection{
		Team:       rec.text("team"),
		Season:     rec.integer("season"),
		PlayerID:   rec.text("playerId"),
		PlayerName: rec.text("player_name"),
		Rating:     rec.numOr("rating", 0),
		Salary:     rec.numOr("salary", 0),
		AA:         rec.numOr("AA", 0),
		Games:      rec.numOr("Games", 0),
	}, true
}

func AFLForm(raw dataset.RawRow) (dataset.AFLForm, bool) {
	rec, ok := aflFormSchema.resolve(raw)
	if !ok {
		return dataset.AFLForm{}, false
	}
	return dataset.AFLForm{
		Season:      rec.integer("season"),
		PlayerID:    rec.text("playerId"),
		Team:        rec.text("team"),
		PlayerName:  rec.text("player_name"),
		WeightedAvg: rec.numOr("weighted_avg", 0),
		RecentForm:  rec.numPtr("recent_form"),
		FormChange:  rec.numOr("form_change", 0),
	}, true
}

func VFLForm(raw dataset.RawRow) (dataset.VFLForm, bool) {
	rec, ok := vflFormSchema.resolve(raw)
	if !ok {
		return dataset.VFLForm{}, false
	}
	return dataset.VFLForm{
		Season:      rec.integer("season"),
		PlayerID:    rec.text("playerId"),
		Team:        rec.text("team"),
		PlayerName:  rec.text("player_name"),
		WeightedAvg: rec.numOr("weighted_avg", 0),
	}, true
}

// CareerProjection defaults SourceSeason to Season and SourceRating to zero.
func CareerProjection(raw dataset.RawRow) (dataset.CareerProjection, bool) {
	rec, ok := careerProjectionSchema.resolve(raw)
	if !ok {
		return dataset.CareerProjection{}, false
	}

	season := rec.integer("Season")
	sourceSeason := season
	if _, ok := rec.num("SourceSeason"); ok {
		sourceSeason = rec.integer("SourceSeason")
	}

	var stats map[dataset.StatKey]float64
	for _, f := range careerStatFields {
		v, ok := rec.num(f.Name)
		if !ok {
			continue
		}
		if stats == nil {
			stats = make(map[dataset.StatKey]float64, len(careerStatFields))
		}
		stats[dataset.StatKey(f.Name)] = v
	}

	return dataset.CareerProjection{
		SourceProviderID: rec.text("SourceproviderId"),
		SourcePlayer:     rec.text("SourcePlayer"),
		SourceSeason:     sourceSeason,
		SourceRating:     rec.numOr("SourceRating", 0),
		SourcePosition:   rec.text("SourcePosition"),
		Horizon:          rec.integer("Horizon"),
		Season:           season,
		Estimate:         rec.numPtr("estimate"),
		Lower:            rec.numPtr("lower"),
		Upper:            rec.numPtr("upper"),
		Salary:           rec.numPtr("salary"),
		Optimistic:       rec.numPtr("Optimistic"),
		Pessimistic:      rec.numPtr("Pessimistic"),
		SalaryOpt:        rec.numPtr("salary_opt"),
		SalaryPes:        rec.numPtr("salary_pes"),
		AA:               rec.numPtr("AA"),
		Seasons:          rec.numPtr("Seasons"),
		Season90:         rec.numPtr("Season_90"),
		Games:            rec.numPtr("Games"),
		RankAll:          rec.numPtr("rank_all"),
		RankPos:          rec.numPtr("rank_pos"),
		Height:           rec.text("Height"),
		Age:              rec.text("Age"),
		Drafted:          rec.text("Drafted"),
		Type:             rec.text("Type"),
		Team:             rec.text("team"),
		Stats:            stats,
	}, true
}

func PlayerStatsAgg(raw dataset.RawRow) (dataset.PlayerStatsAgg, bool) {
	rec, ok := playerStatsAggSchema.resolve(raw)
	if !ok {
		return dataset.PlayerStatsAgg{}, false
	}
	return dataset.PlayerStatsAgg{
		Season:      rec.integer("season"),
		PlayerID:    rec.text("player_id"),
		PlayerName:  rec.text("player_name"),
		MetricName:  rec.text("metric_name"),
		Category:    rec.text("category"),
		MetricValue: rec.numOr("metric_value", 0),
	}, true
}

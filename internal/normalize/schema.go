package normalize

import (
	"math"

	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// FieldType tells the resolver how to coerce a column.
type FieldType int

const (
	Number FieldType = iota
	Text
	ClubName
	PlayerRef
)

func (t FieldType) String() string {
	switch t {
	case Number:
		return "number"
	case Text:
		return "text"
	case ClubName:
		return "club"
	case PlayerRef:
		return "player_id"
	default:
		return "unknown"
	}
}

// Field is one typed column. Keys are the accepted source headers in priority
// order; the first key holding a non-null value wins.
type Field struct {
	Name     string
	Keys     []string
	Type     FieldType
	Required bool
}

type Schema struct {
	Kind   dataset.Kind
	Fields []Field
}

type record struct {
	nums  map[string]float64
	texts map[string]string
}

func (r record) num(name string) (float64, bool) {
	v, ok := r.nums[name]
	return v, ok
}

func (r record) numOr(name string, fallback float64) float64 {
	if v, ok := r.nums[name]; ok {
		return v
	}
	return fallback
}

func (r record) numPtr(name string) *float64 {
	v, ok := r.nums[name]
	if !ok {
		return nil
	}
	return &v
}

func (r record) integer(name string) int {
	return int(math.Round(r.nums[name]))
}

func (r record) text(name string) string {
	return r.texts[name]
}

func lookup(raw dataset.RawRow, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// resolve coerces every field once. It reports false when a required field is
// missing, not finite, or empty after trimming.
func (s Schema) resolve(raw dataset.RawRow) (record, bool) {
	rec := record{
		nums:  make(map[string]float64, len(s.Fields)),
		texts: make(map[string]string, 4),
	}
	for _, f := range s.Fields {
		v := lookup(raw, f.Keys)
		switch f.Type {
		case Number:
			n, ok := ToNumber(v)
			if !ok {
				if f.Required {
					return record{}, false
				}
				continue
			}
			rec.nums[f.Name] = n
		default:
			var t string
			switch f.Type {
			case ClubName:
				t = club.NormalizeName(ToTrimmedString(v))
			case PlayerRef:
				t = PlayerID(v)
			default:
				t = ToTrimmedString(v)
			}
			if t == "" && f.Required {
				return record{}, false
			}
			rec.texts[f.Name] = t
		}
	}
	return rec, true
}

func num(name string, required bool, keys ...string) Field {
	if len(keys) == 0 {
		keys = []string{name}
	}
	return Field{Name: name, Keys: keys, Type: Number, Required: required}
}

func text(name string, typ FieldType, required bool, keys ...string) Field {
	if len(keys) == 0 {
		keys = []string{name}
	}
	return Field{Name: name, Keys: keys, Type: typ, Required: required}
}

var rosterSchema = Schema{Kind: dataset.KindRoster, Fields: []Field{
	num("season", true),
	num("age", true),
	num("games", true),
	text("team", ClubName, true),
	num("ratings", false),
	text("age_cat", Text, false),
	text("providerId", PlayerRef, false),
	text("player_name", Text, false),
	text("position_group", Text, false),
}}

var teamKPISchema = Schema{Kind: dataset.KindTeamKPI, Fields: []Field{
	text("Club", ClubName, true),
	num("season", true),
	num("squad_age_avg", true),
	num("squad_experience_avg_games", true),
	num("squad_turnover_players", true),
	num("squad_age_yoy", false),
	num("squad_experience_yoy", false),
	num("squad_turnover_yoy", false),
}}

var rankSeriesSchema = Schema{Kind: dataset.KindRankSeries, Fields: []Field{
	text("Club", ClubName, true),
	num("year", true),
	num("actual_rank", false),
	num("forecast_a_rank", false),
	num("forecast_b_rank", false),
	num("finish_1_p10", false),
	num("finish_1_p25", false),
	num("finish_1_p75", false),
	num("finish_1_p90", false),
	num("finish_2_p10", false),
	num("finish_2_p25", false),
	num("finish_2_p75", false),
	num("finish_2_p90", false),
}}

var skillRadarSchema = Schema{Kind: dataset.KindSkillRadar, Fields: []Field{
	text("squad_name", ClubName, true, "squad.name", "squad_name"),
	text("season", Text, true, "season", "season.id"),
	num("KH_Ratio", false),
	num("GB_MK_Ratio", false),
	num("Fwd_Half", false),
	num("Scores", false),
	num("PPchain", false),
	num("Points_per_I50", false),
	num("Repeat_I50s", false),
	num("Rating_Ball_Use", false),
	num("Rating_Ball_Win", false),
	num("Chain_Metres", false),
	num("Time_in_Poss_Pct", false),
}}

var acquisitionSchema = Schema{Kind: dataset.KindAcquisition, Fields: []Field{
	text("Club", ClubName, true),
	num("Year", true),
	num("value", true),
	text("Draft", Text, true),
}}

var playerProjectionSchema = Schema{Kind: dataset.KindPlayerProjection, Fields: []Field{
	text("team", ClubName, true),
	num("season", true),
	num("rating", true),
	num("salary", true),
	num("AA", true),
	num("Games", false, "Games", "games"),
	text("playerId", PlayerRef, false),
	text("player_name", Text, false),
}}

var aflFormSchema = Schema{Kind: dataset.KindAFLForm, Fields: []Field{
	num("season", true),
	num("weighted_avg", true),
	num("form_change", true),
	text("team", ClubName, true),
	text("playerId", PlayerRef, true),
	text("player_name", Text, true),
	num("recent_form", false),
}}

var vflFormSchema = Schema{Kind: dataset.KindVFLForm, Fields: []Field{
	num("season", true),
	num("weighted_avg", true),
	text("team", Text, true),
	text("playerId", PlayerRef, true),
	text("player_name", Text, true),
}}

var careerStatFields = []Field{
	num(string(dataset.StatKicks), false),
	num(string(dataset.StatHitouts), false),
	num(string(dataset.StatIntercepts), false),
	num(string(dataset.StatSpoils), false),
	num(string(dataset.StatTransition), false),
	num(string(dataset.StatShots), false),
	num(string(dataset.StatStoppage), false),
	num(string(dataset.StatBallUse), false),
	num(string(dataset.StatBallWinning), false),
	num(string(dataset.StatPressure), false),
	num(string(dataset.StatKicking), false),
	num(string(dataset.StatHandballing), false),
	num(string(dataset.StatTransitionBallUse), false, "Transition_Ball_Use", "Transition_BallUse", "Transition Ball Use"),
	num(string(dataset.StatPostClearanceBallUse), false, "Post_Clearance_Ball_Use", "Post Clearance Ball Use"),
	num(string(dataset.StatClearanceBallUse), false, "Clearance_Ball_Use", "Clearance Ball Use"),
	num(string(dataset.StatAerial), false),
	num(string(dataset.StatGround), false),
	num(string(dataset.StatRunCarry), false, "Run_Carry", "Run Carry"),
	num(string(dataset.StatTurnoverTransitionBallWinning), false, "Turnover_Transition_Ball_Winning", "Turnover Transition Ball Winning"),
	num(string(dataset.StatStoppageTransitionBallWinning), false, "Stoppage_Transition_Ball_Winning", "Stoppage Transition Ball Winning"),
	num(string(dataset.StatPreClearanceBallWinning), false, "Pre_Clearance_Ball_Winning", "Pre Clearance Ball Winning"),
	num(string(dataset.StatSpoiling), false, "Spoiling", "Spoil", "Spoils"),
}

var careerProjectionSchema = Schema{Kind: dataset.KindCareerProjection, Fields: append([]Field{
	num("Season", true),
	num("Horizon", true),
	num("SourceSeason", false),
	num("SourceRating", false),
	text("SourceproviderId", PlayerRef, false),
	text("SourcePlayer", Text, false),
	text("SourcePosition", Text, false),
	num("estimate", false),
	num("lower", false),
	num("upper", false),
	num("salary", false),
	num("Optimistic", false, "Optimistic", "optimistic"),
	num("Pessimistic", false, "Pessimistic", "pessimistic"),
	num("salary_opt", false, "salary_opt", "salaryOpt", "Salary_Opt", "SalaryOpt"),
	num("salary_pes", false, "salary_pes", "salaryPes", "Salary_Pes", "SalaryPes"),
	num("AA", false, "AA", "AA ", "All Australian", "AllAustralian", "AA_prob", "AAProb", "AA Probability", "AA_Prob"),
	num("Seasons", false),
	num("Season_90", false, "Season_90", "season_90", "Season90", "season90", "Season_90 ", "Season 90"),
	num("Games", false, "Games", "Games100", "Games_100", "Games100+", "Games100Plus", "Games Probability", "Games_prob", "GamesProb"),
	num("rank_all", false, "rank_all", "Rank_all", "rankAll", "rank_all "),
	num("rank_pos", false, "rank_pos", "Rank_pos", "rankPos", "rank_pos "),
	text("Height", Text, false, "Height", "height"),
	text("Age", Text, false, "Age", "age"),
	text("Drafted", Text, false, "Drafted", "drafted"),
	text("Type", Text, false),
	text("team", Text, false),
}, careerStatFields...)}

var playerStatsAggSchema = Schema{Kind: dataset.KindPlayerStatsAgg, Fields: []Field{
	num("season", true, "season", "Season"),
	text("player_id", PlayerRef, true, "player.id", "player_id", "playerId"),
	text("metric_name", Text, true, "metric_name", "metric_name ", "Metric Name", "Metric_Name"),
	text("category", Text, true, "category", "Metric_Category", "Metric Category"),
	num("metric_value", true, "metric_value", "metricValue", "value"),
	text("player_name", Text, false, "player.name", "player_name", "playerName"),
}}

var schemas = map[dataset.Kind]Schema{
	dataset.KindRoster:           rosterSchema,
	dataset.KindTeamKPI:          teamKPISchema,
	dataset.KindRankSeries:       rankSeriesSchema,
	dataset.KindSkillRadar:       skillRadarSchema,
	dataset.KindAcquisition:      acquisitionSchema,
	dataset.KindPlayerProjection: playerProjectionSchema,
	dataset.KindAFLForm:          aflFormSchema,
	dataset.KindVFLForm:          vflFormSchema,
	dataset.KindCareerProjection: careerProjectionSchema,
	dataset.KindPlayerStatsAgg:   playerStatsAggSchema,
}

// SchemaFor returns the column schema of a dataset.
func SchemaFor(kind dataset.Kind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

package dataset

import "strings"

type RosterPlayer struct {
	Season        int     `json:"season"`
	Team          string  `json:"team"`
	ProviderID    string  `json:"providerId"`
	PlayerName    string  `json:"playerName"`
	Age           float64 `json:"age"`
	PositionGroup string  `json:"positionGroup"`
	Games         float64 `json:"games"`
	Ratings       float64 `json:"ratings"`
	AgeCategory   string  `json:"ageCategory"`
}

type TeamKPI struct {
	Club                    string   `json:"club"`
	Season                  int      `json:"season"`
	SquadAgeAvg             float64  `json:"squadAgeAvg"`
	SquadAgeYoY             *float64 `json:"squadAgeYoY"`
	SquadExperienceAvgGames float64  `json:"squadExperienceAvgGames"`
	SquadExperienceYoY      *float64 `json:"squadExperienceYoY"`
	SquadTurnoverPlayers    float64  `json:"squadTurnoverPlayers"`
	SquadTurnoverYoY        *float64 `json:"squadTurnoverYoY"`
}

// RankSeries carries actual ladder finishes; forecast fields are populated on the latest year only.
type RankSeries struct {
	Club          string   `json:"club"`
	Year          int      `json:"year"`
	ActualRank    *float64 `json:"actualRank"`
	ForecastARank *float64 `json:"forecastARank"`
	ForecastBRank *float64 `json:"forecastBRank"`
	Finish1P10    *float64 `json:"finish1P10"`
	Finish1P25    *float64 `json:"finish1P25"`
	Finish1P75    *float64 `json:"finish1P75"`
	Finish1P90    *float64 `json:"finish1P90"`
	Finish2P10    *float64 `json:"finish2P10"`
	Finish2P25    *float64 `json:"finish2P25"`
	Finish2P75    *float64 `json:"finish2P75"`
	Finish2P90    *float64 `json:"finish2P90"`
}

// SkillRadar metrics are ratios on a 0-1 scale.
type SkillRadar struct {
	Season        string  `json:"season"`
	SquadName     string  `json:"squadName"`
	KHRatio       float64 `json:"khRatio"`
	GBMKRatio     float64 `json:"gbMkRatio"`
	FwdHalf       float64 `json:"fwdHalf"`
	Scores        float64 `json:"scores"`
	PPChain       float64 `json:"ppChain"`
	PointsPerI50  float64 `json:"pointsPerI50"`
	RepeatI50s    float64 `json:"repeatI50s"`
	RatingBallUse float64 `json:"ratingBallUse"`
	RatingBallWin float64 `json:"ratingBallWin"`
	ChainMetres   float64 `json:"chainMetres"`
	TimeInPossPct float64 `json:"timeInPossPct"`
}

type Acquisition struct {
	Club  string  `json:"club"`
	Year  int     `json:"year"`
	Draft string  `json:"draft"`
	Value float64 `json:"value"`
}

type PlayerProjection struct {
	Team       string  `json:"team"`
	Season     int     `json:"season"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Rating     float64 `json:"rating"`
	Salary     float64 `json:"salary"`
	AA         float64 `json:"aa"`
	Games      float64 `json:"games"`
}

type AFLForm struct {
	Season      int      `json:"season"`
	PlayerID    string   `json:"playerId"`
	Team        string   `json:"team"`
	PlayerName  string   `json:"playerName"`
	WeightedAvg float64  `json:"weightedAvg"`
	RecentForm  *float64 `json:"recentForm"`
	FormChange  float64  `json:"formChange"`
}

// VFLForm keeps the team as published; it may read "Multiple" for split seasons.
type VFLForm struct {
	Season      int     `json:"season"`
	PlayerID    string  `json:"playerId"`
	Team        string  `json:"team"`
	PlayerName  string  `json:"playerName"`
	WeightedAvg float64 `json:"weightedAvg"`
}

// StatKey names a per-player component or advanced-stat column of career projections.
type StatKey string

const (
	StatKicks                         StatKey = "Kicks"
	StatHitouts                       StatKey = "Hitouts"
	StatIntercepts                    StatKey = "Intercepts"
	StatSpoils                        StatKey = "Spoils"
	StatTransition                    StatKey = "Transition"
	StatShots                         StatKey = "Shots"
	StatStoppage                      StatKey = "Stoppage"
	StatBallUse                       StatKey = "Ball_Use"
	StatBallWinning                   StatKey = "Ball_Winning"
	StatPressure                      StatKey = "Pressure"
	StatKicking                       StatKey = "Kicking"
	StatHandballing                   StatKey = "Handballing"
	StatTransitionBallUse             StatKey = "Transition_Ball_Use"
	StatPostClearanceBallUse          StatKey = "Post_Clearance_Ball_Use"
	StatClearanceBallUse              StatKey = "Clearance_Ball_Use"
	StatAerial                        StatKey = "Aerial"
	StatGround                        StatKey = "Ground"
	StatRunCarry                      StatKey = "Run_Carry"
	StatTurnoverTransitionBallWinning StatKey = "Turnover_Transition_Ball_Winning"
	StatStoppageTransitionBallWinning StatKey = "Stoppage_Transition_Ball_Winning"
	StatPreClearanceBallWinning       StatKey = "Pre_Clearance_Ball_Winning"
	StatSpoiling                      StatKey = "Spoiling"
)

// CareerProjection is one season of a player's actual or projected career.
type CareerProjection struct {
	SourceProviderID string  `json:"sourceProviderId"`
	SourcePlayer     string  `json:"sourcePlayer"`
	SourceSeason     int     `json:"sourceSeason"`
	SourceRating     float64 `json:"sourceRating"`
	SourcePosition   string  `json:"sourcePosition"`
	Horizon          int     `json:"horizon"`
	Season           int     `json:"season"`

	Estimate    *float64 `json:"estimate"`
	Lower       *float64 `json:"lower"`
	Upper       *float64 `json:"upper"`
	Salary      *float64 `json:"salary"`
	Optimistic  *float64 `json:"optimistic"`
	Pessimistic *float64 `json:"pessimistic"`
	SalaryOpt   *float64 `json:"salaryOpt"`
	SalaryPes   *float64 `json:"salaryPes"`
	AA          *float64 `json:"aa"`
	Seasons     *float64 `json:"seasons"`
	Season90    *float64 `json:"season90"`
	Games       *float64 `json:"games"`
	RankAll     *float64 `json:"rankAll"`
	RankPos     *float64 `json:"rankPos"`

	Height  string `json:"height"`
	Age     string `json:"age"`
	Drafted string `json:"drafted"`
	Type    string `json:"type"`
	Team    string `json:"team"`

	Stats map[StatKey]float64 `json:"stats,omitempty"`
}

// IsActual reports whether the row is observed history rather than a projection.
func (r CareerProjection) IsActual() bool {
	return IsActualType(r.Type)
}

// Stat returns the named stat or nil when the column was absent.
func (r CareerProjection) Stat(key StatKey) *float64 {
	v, ok := r.Stats[key]
	if !ok {
		return nil
	}
	return &v
}

func IsActualType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "actual", "hist", "history":
		return true
	default:
		return false
	}
}

type PlayerStatsAgg struct {
	Season      int     `json:"season"`
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	MetricName  string  `json:"metricName"`
	Category    string  `json:"category"`
	MetricValue float64 `json:"metricValue"`
}

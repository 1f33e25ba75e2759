package analytics

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// Direction orders values for DenseRank.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

type KPICard struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Sub      string `json:"sub"`
	PlayerID string `json:"playerId,omitempty"`
}

type AgeBin struct {
	Age   int    `json:"age"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

type AgeShare struct {
	Category string  `json:"ageCategory"`
	Points   float64 `json:"points"`
	Pct      float64 `json:"pct"`
	Color    string  `json:"color"`
}

type ShareRow struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

type RadarAxis struct {
	Metric  string   `json:"metric"`
	Value   float64  `json:"value"`
	Compare *float64 `json:"compare,omitempty"`
}

type RankPoint struct {
	Year      int      `json:"year"`
	Actual    *float64 `json:"actual"`
	FcstA     *float64 `json:"fcstA"`
	FcstB     *float64 `json:"fcstB"`
	P25       *float64 `json:"p25"`
	P75       *float64 `json:"p75"`
	BandLow   *float64 `json:"bandLow"`
	BandRange *float64 `json:"bandRange"`
}

type PlayerTableRow struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Salary float64 `json:"salary"`
	AA     float64 `json:"AA"`
	Games  float64 `json:"Games"`
}

// closest picks the exact target, otherwise the nearest; a tie goes to the later season.
func closest(seasons []int, target int) (int, bool) {
	if len(seasons) == 0 {
		return 0, false
	}
	best := seasons[0]
	for _, s := range seasons {
		if s == target {
			return s, true
		}
		d, bd := abs(s-target), abs(best-target)
		if d < bd || (d == bd && s > best) {
			best = s
		}
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TeamKPIFor returns the club's KPI row for season, or the closest season available.
func TeamKPIFor(rows []dataset.TeamKPI, clubKey string, season int) *dataset.TeamKPI {
	var seasons []int
	for _, r := range rows {
		if r.Club == clubKey {
			seasons = append(seasons, r.Season)
		}
	}
	used, ok := closest(seasons, season)
	if !ok {
		return nil
	}
	for i := range rows {
		if rows[i].Club == clubKey && rows[i].Season == used {
			out := rows[i]
			return &out
		}
	}
	return nil
}

// DenseRank returns 1 + the position of target among the distinct finite values.
func DenseRank(values []float64, target float64, dir Direction) *int {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return nil
	}
	uniq := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	slices.Sort(uniq)
	if dir == Descending {
		slices.Reverse(uniq)
	}
	for i, v := range uniq {
		if v == target {
			return ptr(i + 1)
		}
	}
	return nil
}

// KPICards builds the five team cards. Ranks are computed against every club
// in the season of the KPI row actually shown.
func KPICards(snap *dataset.Snapshot, clubKey string, season int) []KPICard {
	if snap == nil {
		snap = &dataset.Snapshot{}
	}
	kpi := TeamKPIFor(snap.TeamKPIs, clubKey, season)

	rankSeason := season
	if kpi != nil {
		rankSeason = kpi.Season
	}
	var ages, exps, turns []float64
	clubs := map[string]struct{}{}
	for _, r := range snap.TeamKPIs {
		if r.Season != rankSeason {
			continue
		}
		clubs[r.Club] = struct{}{}
		ages = append(ages, r.SquadAgeAvg)
		exps = append(exps, r.SquadExperienceAvgGames)
		turns = append(turns, r.SquadTurnoverPlayers)
	}
	nTeams := max(1, len(clubs))

	rankSub := func(yoy *float64, rank *int) string {
		r := Placeholder
		if rank != nil {
			r = strconv.Itoa(*rank)
		}
		return SafeYoY(yoy, 1) + " • Rank: " + r + "/" + strconv.Itoa(nTeams)
	}

	cards := make([]KPICard, 0, 5)
	if kpi != nil {
		cards = append(cards,
			KPICard{Label: "Squad Age", Value: fixed(kpi.SquadAgeAvg, 1), Sub: rankSub(kpi.SquadAgeYoY, DenseRank(ages, kpi.SquadAgeAvg, Ascending))},
			KPICard{Label: "Squad Experience", Value: FmtThousands(kpi.SquadExperienceAvgGames), Sub: rankSub(kpi.SquadExperienceYoY, DenseRank(exps, kpi.SquadExperienceAvgGames, Descending))},
			KPICard{Label: "Squad Turnover", Value: strconv.FormatFloat(roundHalfUp(kpi.SquadTurnoverPlayers), 'f', 0, 64) + " players", Sub: rankSub(kpi.SquadTurnoverYoY, DenseRank(turns, kpi.SquadTurnoverPlayers, Descending))},
		)
	} else {
		empty := "YoY: " + Placeholder + " • Rank: " + Placeholder + "/" + strconv.Itoa(nTeams)
		cards = append(cards,
			KPICard{Label: "Squad Age", Value: Placeholder, Sub: empty},
			KPICard{Label: "Squad Experience", Value: Placeholder, Sub: empty},
			KPICard{Label: "Squad Turnover", Value: Placeholder, Sub: empty},
		)
	}

	afl := KPICard{Label: "AFL Form", Value: Placeholder, Sub: "Player: " + Placeholder}
	if pick := bestAFLForm(snap.AFLForm, clubKey, season); pick != nil {
		afl.Value = FmtSigned(pick.FormChange, 2)
		afl.Sub = "Player: " + pick.PlayerName
		afl.PlayerID = pick.PlayerID
	}

	vfl := KPICard{Label: "VFL Form", Value: Placeholder, Sub: "Player: " + Placeholder}
	if pick := bestVFLForm(snap.VFLForm, clubKey, season); pick != nil {
		vfl.Value = fixed(pick.WeightedAvg, 1)
		vfl.Sub = "Player: " + pick.PlayerName
		vfl.PlayerID = pick.PlayerID
	}

	return append(cards, afl, vfl)
}

func bestAFLForm(rows []dataset.AFLForm, clubKey string, season int) *dataset.AFLForm {
	var best *dataset.AFLForm
	for i := range rows {
		r := &rows[i]
		if r.Team != clubKey || r.Season != season {
			continue
		}
		if best == nil || r.FormChange > best.FormChange {
			best = r
		}
	}
	return best
}

func bestVFLForm(rows []dataset.VFLForm, clubKey string, season int) *dataset.VFLForm {
	var best *dataset.VFLForm
	for i := range rows {
		r := &rows[i]
		if r.Season != season || club.NormalizeName(r.Team) != clubKey {
			continue
		}
		if strings.ToLower(strings.TrimSpace(r.Team)) == "multiple" {
			continue
		}
		if best == nil || r.WeightedAvg > best.WeightedAvg {
			best = r
		}
	}
	return best
}

// RosterForSeason returns the club's players in season, or in the closest season it has.
func RosterForSeason(roster []dataset.RosterPlayer, clubKey string, season int) ([]dataset.RosterPlayer, int) {
	var seasons []int
	for _, r := range roster {
		if r.Team == clubKey {
			seasons = append(seasons, r.Season)
		}
	}
	used, ok := closest(seasons, season)
	if !ok {
		return []dataset.RosterPlayer{}, season
	}

	players := make([]dataset.RosterPlayer, 0)
	for _, r := range roster {
		if r.Team == clubKey && r.Season == used {
			players = append(players, r)
		}
	}
	return players, used
}

func AverageAge(players []dataset.RosterPlayer) *float64 {
	if len(players) == 0 {
		return nil
	}
	var sum float64
	for _, p := range players {
		sum += p.Age
	}
	return ptr(sum / float64(len(players)))
}

// LeagueAverageAge averages every club's players in season.
func LeagueAverageAge(roster []dataset.RosterPlayer, season int) *float64 {
	var players []dataset.RosterPlayer
	for _, r := range roster {
		if r.Season == season {
			players = append(players, r)
		}
	}
	return AverageAge(players)
}

const (
	minHistogramAge = 18
	maxHistogramAge = 35
)

// AgeHistogram counts players per whole year of age between 18 and 35.
func AgeHistogram(players []dataset.RosterPlayer) []AgeBin {
	bins := make([]AgeBin, 0, maxHistogramAge-minHistogramAge+1)
	for age := minHistogramAge; age <= maxHistogramAge; age++ {
		bins = append(bins, AgeBin{Age: age, Label: strconv.Itoa(age)})
	}
	for _, p := range players {
		a := int(roundHalfUp(p.Age))
		if a < minHistogramAge || a > maxHistogramAge {
			continue
		}
		bins[a-minHistogramAge].Count++
	}
	return bins
}

// AgeCategoryShare weights each age category by summed player ratings.
func AgeCategoryShare(players []dataset.RosterPlayer) []AgeShare {
	if len(players) == 0 {
		return []AgeShare{}
	}

	totals := map[string]float64{}
	var order []string
	var grand float64
	for _, p := range players {
		cat := strings.TrimSpace(p.AgeCategory)
		if cat == "" || math.IsNaN(p.Ratings) || math.IsInf(p.Ratings, 0) {
			continue
		}
		if _, ok := totals[cat]; !ok {
			order = append(order, cat)
		}
		totals[cat] += p.Ratings
		grand += p.Ratings
	}
	if grand == 0 {
		grand = 1
	}

	out := make([]AgeShare, 0, len(order))
	for _, cat := range order {
		out = append(out, AgeShare{
			Category: cat,
			Points:   totals[cat],
			Pct:      totals[cat] / grand * 100,
			Color:    club.AgeCategoryColor(cat),
		})
	}
	slices.SortStableFunc(out, func(a, b AgeShare) int {
		ia, ib := club.AgeCategoryIndex(a.Category), club.AgeCategoryIndex(b.Category)
		switch {
		case ia == -1 && ib == -1:
			return cmp.Compare(b.Pct, a.Pct)
		case ia == -1:
			return 1
		case ib == -1:
			return -1
		default:
			return ia - ib
		}
	})
	return out
}

// AcquisitionShare converts the club's acquisition counts for year into percentages.
func AcquisitionShare(rows []dataset.Acquisition, clubKey string, year int) []ShareRow {
	var picked []dataset.Acquisition
	var total float64
	for _, r := range rows {
		if r.Club == clubKey && r.Year == year {
			picked = append(picked, r)
			total += r.Value
		}
	}
	if total == 0 {
		total = 1
	}
	slices.SortStableFunc(picked, func(a, b dataset.Acquisition) int {
		return strings.Compare(a.Draft, b.Draft)
	})

	out := make([]ShareRow, 0, len(picked))
	for _, r := range picked {
		out = append(out, ShareRow{
			Metric: r.Draft,
			Value:  r.Value / total * 100,
			Color:  club.AcquisitionColor(r.Draft),
		})
	}
	return out
}

// SkillRadar returns the eleven team skill axes on a 0-100 scale.
func SkillRadar(rows []dataset.SkillRadar, clubKey string, season int) []RadarAxis {
	var clubRows []dataset.SkillRadar
	for _, r := range rows {
		if r.SquadName == clubKey {
			clubRows = append(clubRows, r)
		}
	}
	if len(clubRows) == 0 {
		return []RadarAxis{}
	}

	want := strconv.Itoa(season)
	pick := clubRows[0]
	found := false
	for _, r := range clubRows {
		if strings.TrimSpace(r.Season) == want {
			pick, found = r, true
			break
		}
	}
	if !found {
		for _, r := range clubRows {
			if n, err := strconv.ParseFloat(strings.TrimSpace(r.Season), 64); err == nil && n == float64(season) {
				pick = r
				break
			}
		}
	}

	pct := func(v float64) float64 { return math.Max(0, math.Min(100, v*100)) }
	return []RadarAxis{
		{Metric: "K-H Ratio", Value: pct(pick.KHRatio)},
		{Metric: "GB/MK Ratio", Value: pct(pick.GBMKRatio)},
		{Metric: "Fwd Half", Value: pct(pick.FwdHalf)},
		{Metric: "Scores", Value: pct(pick.Scores)},
		{Metric: "PP Chain", Value: pct(pick.PPChain)},
		{Metric: "Pts / i50", Value: pct(pick.PointsPerI50)},
		{Metric: "Repeat i50s", Value: pct(pick.RepeatI50s)},
		{Metric: "Ball Use", Value: pct(pick.RatingBallUse)},
		{Metric: "Ball Win", Value: pct(pick.RatingBallWin)},
		{Metric: "Chain Metres", Value: pct(pick.ChainMetres)},
		{Metric: "Time in Poss", Value: pct(pick.TimeInPossPct)},
	}
}

// MergeRadar overlays the compare team's values onto base. Without a compare
// radar base is returned unchanged.
func MergeRadar(base, compare []RadarAxis) []RadarAxis {
	if len(compare) == 0 {
		return base
	}
	byMetric := make(map[string]float64, len(compare))
	for _, a := range compare {
		byMetric[a.Metric] = a.Value
	}
	out := make([]RadarAxis, 0, len(base))
	for _, a := range base {
		merged := RadarAxis{Metric: a.Metric, Value: a.Value}
		if v, ok := byMetric[a.Metric]; ok {
			merged.Compare = ptr(v)
		}
		out = append(out, merged)
	}
	return out
}

// RankTrend builds the ladder series: actual history, an anchor at the last
// known actual, and two synthesized forecast years with percentile bands.
func RankTrend(rows []dataset.RankSeries, clubKey string) []RankPoint {
	var clubRows []dataset.RankSeries
	for _, r := range rows {
		if r.Club == clubKey {
			clubRows = append(clubRows, r)
		}
	}
	if len(clubRows) == 0 {
		return []RankPoint{}
	}
	slices.SortStableFunc(clubRows, func(a, b dataset.RankSeries) int { return a.Year - b.Year })

	latest := clubRows[len(clubRows)-1]
	lastActualYear := latest.Year
	for i := len(clubRows) - 1; i >= 0; i-- {
		if clubRows[i].ActualRank != nil {
			lastActualYear = clubRows[i].Year
			break
		}
	}
	var lastActualRank *float64
	for _, r := range clubRows {
		if r.Year == lastActualYear {
			lastActualRank = r.ActualRank
			break
		}
	}

	byYear := make(map[int]RankPoint, len(clubRows)+2)
	for _, r := range clubRows {
		if _, ok := byYear[r.Year]; !ok {
			byYear[r.Year] = RankPoint{Year: r.Year, Actual: r.ActualRank}
		}
	}

	streamed := []RankPoint{
		{Year: lastActualYear, Actual: lastActualRank, FcstA: lastActualRank},
		{Year: latest.Year + 1, FcstA: latest.ForecastARank, FcstB: latest.ForecastARank, P25: latest.Finish1P25, P75: latest.Finish1P75},
		{Year: latest.Year + 2, FcstB: latest.ForecastBRank, P25: latest.Finish2P25, P75: latest.Finish2P75},
	}
	for _, p := range streamed {
		byYear[p.Year] = p
	}

	out := make([]RankPoint, 0, len(byYear))
	for _, p := range byYear {
		if finitePtr(p.P25) && finitePtr(p.P75) {
			p.BandLow = ptr(*p.P25)
			p.BandRange = ptr(math.Max(0, *p.P75-*p.P25))
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b RankPoint) int { return a.Year - b.Year })
	return out
}

// PlayerTable lists the club's twelve highest-rated projections for season.
func PlayerTable(rows []dataset.PlayerProjection, clubKey string, season int) []PlayerTableRow {
	out := make([]PlayerTableRow, 0)
	for _, r := range rows {
		if r.Team != clubKey || r.Season != season {
			continue
		}
		out = append(out, PlayerTableRow{Name: r.PlayerName, Rating: r.Rating, Salary: r.Salary, AA: r.AA, Games: r.Games})
	}
	slices.SortStableFunc(out, func(a, b PlayerTableRow) int { return cmp.Compare(b.Rating, a.Rating) })
	if len(out) > 12 {
		out = out[:12]
	}
	return out
}

var defaultYearPills = []int{2023, 2024, 2025, 2026}

// YearPills returns the club's four most recent KPI seasons.
func YearPills(rows []dataset.TeamKPI, clubKey string) []int {
	var seasons []int
	for _, r := range rows {
		if r.Club == clubKey {
			seasons = append(seasons, r.Season)
		}
	}
	if len(seasons) == 0 {
		return slices.Clone(defaultYearPills)
	}
	slices.Sort(seasons)
	seasons = slices.Compact(seasons)
	if len(seasons) > 4 {
		seasons = seasons[len(seasons)-4:]
	}
	return seasons
}

package analytics

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// Outlook selects which projection scenario drives projected seasons.
type Outlook string

const (
	OutlookNeutral     Outlook = "neutral"
	OutlookOptimistic  Outlook = "optimistic"
	OutlookPessimistic Outlook = "pessimistic"
)

// ParseOutlook maps s to a known outlook. Anything unrecognized is neutral.
func ParseOutlook(s string) Outlook {
	switch Outlook(strings.ToLower(strings.TrimSpace(s))) {
	case OutlookOptimistic:
		return OutlookOptimistic
	case OutlookPessimistic:
		return OutlookPessimistic
	default:
		return OutlookNeutral
	}
}

type PlayerRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
	Position string `json:"position,omitempty"`
}

// ClubPlayers lists the distinct players whose career rows belong to teamKey.
// Rows without a team are kept. The team column may hold a club id or a name.
func ClubPlayers(rows []dataset.CareerProjection, teamKey string) []PlayerRef {
	filtered := make([]dataset.CareerProjection, 0, len(rows))
	for _, r := range rows {
		t := strings.TrimSpace(r.Team)
		if t == "" || club.NormalizeName(club.NameForID(club.CoerceTeamID(t))) == teamKey {
			filtered = append(filtered, r)
		}
	}
	return distinctPlayers(filtered)
}

// AllPlayers lists every distinct player in the career dataset.
func AllPlayers(rows []dataset.CareerProjection) []PlayerRef {
	return distinctPlayers(rows)
}

func distinctPlayers(rows []dataset.CareerProjection) []PlayerRef {
	seen := map[string]struct{}{}
	out := make([]PlayerRef, 0)
	for _, r := range rows {
		id, name := r.SourceProviderID, strings.TrimSpace(r.SourcePlayer)
		if id == "" || name == "" {
			continue
		}
		key := id + "__" + name
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, PlayerRef{ID: id, Name: name, Team: r.Team, Position: r.SourcePosition})
	}
	slices.SortStableFunc(out, func(a, b PlayerRef) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// SelectPlayer returns the requested player when listed, else the first one.
func SelectPlayer(players []PlayerRef, requested string) (PlayerRef, bool) {
	if p, ok := FindPlayer(players, requested); ok {
		return p, true
	}
	if len(players) == 0 {
		return PlayerRef{}, false
	}
	return players[0], true
}

func FindPlayer(players []PlayerRef, id string) (PlayerRef, bool) {
	if id == "" {
		return PlayerRef{}, false
	}
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerRef{}, false
}

// TrajectoryPoint is one season of a single player's career line.
type TrajectoryPoint struct {
	Season       int                         `json:"season"`
	Horizon      int                         `json:"horizon"`
	SourceSeason int                         `json:"sourceSeason"`
	Actual       *float64                    `json:"actual"`
	Estimate     *float64                    `json:"estimate"`
	Lower0       *float64                    `json:"lower0"`
	Band         *float64                    `json:"band"`
	Salary       *float64                    `json:"salary"`
	AA           *float64                    `json:"AA"`
	Games        *float64                    `json:"Games"`
	Seasons      *float64                    `json:"Seasons"`
	Season90     *float64                    `json:"Season_90"`
	RankAll      *float64                    `json:"rank_all"`
	RankPos      *float64                    `json:"rank_pos"`
	Position     string                      `json:"position"`
	Team         string                      `json:"team"`
	Stats        map[dataset.StatKey]float64 `json:"stats,omitempty"`
}

func firstPositive(rows []dataset.CareerProjection, pick func(dataset.CareerProjection) *float64) *float64 {
	for _, r := range rows {
		if v := pick(r); finitePtr(v) && *v > 0 {
			return v
		}
	}
	return nil
}

func orElse(v, fallback *float64) *float64 {
	if v != nil {
		return v
	}
	return fallback
}

// Trajectory builds the player's career line under outlook. Projected seasons
// beyond the player's expected career length are cut off; actual seasons are
// never affected by the outlook.
func Trajectory(rows []dataset.CareerProjection, playerID string, outlook Outlook) []TrajectoryPoint {
	if playerID == "" {
		return []TrajectoryPoint{}
	}

	var own []dataset.CareerProjection
	for _, r := range rows {
		if r.SourceProviderID == playerID {
			own = append(own, r)
		}
	}
	slices.SortStableFunc(own, func(a, b dataset.CareerProjection) int { return a.Season - b.Season })

	cutoff := firstPositive(own, func(r dataset.CareerProjection) *float64 { return r.Seasons })
	if outlook == OutlookOptimistic {
		cutoff = orElse(firstPositive(own, func(r dataset.CareerProjection) *float64 { return r.Season90 }), cutoff)
	}

	out := make([]TrajectoryPoint, 0, len(own))
	for _, r := range own {
		actual := r.IsActual()
		if cutoff != nil && !actual && float64(r.Horizon) > *cutoff {
			continue
		}

		p := TrajectoryPoint{
			Season:       r.Season,
			Horizon:      r.Horizon,
			SourceSeason: r.SourceSeason,
			Lower0:       r.Lower,
			AA:           r.AA,
			Games:        r.Games,
			Seasons:      r.Seasons,
			Season90:     r.Season90,
			RankAll:      r.RankAll,
			RankPos:      r.RankPos,
			Position:     strings.TrimSpace(r.SourcePosition),
			Team:         strings.TrimSpace(r.Team),
			Stats:        r.Stats,
		}
		if r.Lower != nil && r.Upper != nil {
			p.Band = ptr(math.Max(0, *r.Upper-*r.Lower))
		}

		if actual {
			p.Actual = r.Estimate
			p.Salary = r.Salary
		} else {
			switch outlook {
			case OutlookOptimistic:
				p.Estimate = orElse(r.Optimistic, r.Estimate)
				p.Salary = orElse(r.SalaryOpt, r.Salary)
			case OutlookPessimistic:
				p.Estimate = orElse(r.Pessimistic, r.Estimate)
				p.Salary = orElse(r.SalaryPes, r.Salary)
			default:
				p.Estimate = r.Estimate
				p.Salary = r.Salary
			}
		}
		out = append(out, p)
	}
	return out
}

// ChartPoint is one season of the merged primary/compare chart series.
type ChartPoint struct {
	Season       int      `json:"season"`
	Actual       *float64 `json:"actual"`
	Estimate     *float64 `json:"estimate"`
	Lower0       *float64 `json:"lower0"`
	Band         *float64 `json:"band"`
	Salary       *float64 `json:"salary"`
	AA           *float64 `json:"AA"`
	Games        *float64 `json:"Games"`
	Seasons      *float64 `json:"Seasons"`
	Position     string   `json:"position,omitempty"`
	Team         string   `json:"team,omitempty"`
	RankAll      *float64 `json:"rank_all"`
	RankPos      *float64 `json:"rank_pos"`
	Horizon      *int     `json:"horizon"`
	SourceSeason *int     `json:"sourceSeason"`
	CActual      *float64 `json:"c_actual"`
	CEstimate    *float64 `json:"c_estimate"`
	CLower0      *float64 `json:"c_lower0"`
	CBand        *float64 `json:"c_band"`
	CSalary      *float64 `json:"c_salary"`
	Bridge       *float64 `json:"bridge"`
}

// MergeTrajectories joins both players by season. The bridge field is set only
// at the primary player's last actual and first projected seasons.
func MergeTrajectories(primary, compare []TrajectoryPoint) []ChartPoint {
	bySeason := map[int]*ChartPoint{}
	get := func(season int) *ChartPoint {
		p, ok := bySeason[season]
		if !ok {
			p = &ChartPoint{Season: season}
			bySeason[season] = p
		}
		return p
	}

	for _, d := range primary {
		p := get(d.Season)
		p.Actual, p.Estimate, p.Lower0, p.Band, p.Salary = d.Actual, d.Estimate, d.Lower0, d.Band, d.Salary
		p.AA, p.Games, p.Seasons = d.AA, d.Games, d.Seasons
		p.Position, p.Team = d.Position, d.Team
		p.RankAll, p.RankPos = d.RankAll, d.RankPos
		p.Horizon, p.SourceSeason = ptr(d.Horizon), ptr(d.SourceSeason)
	}
	for _, d := range compare {
		p := get(d.Season)
		p.CActual, p.CEstimate, p.CLower0, p.CBand, p.CSalary = d.Actual, d.Estimate, d.Lower0, d.Band, d.Salary
	}

	var lastA, firstP *TrajectoryPoint
	for i := range primary {
		if primary[i].Actual != nil {
			lastA = &primary[i]
		}
		if firstP == nil && primary[i].Estimate != nil {
			firstP = &primary[i]
		}
	}
	if lastA != nil && firstP != nil && lastA.Season != firstP.Season {
		get(lastA.Season).Bridge = lastA.Actual
		get(firstP.Season).Bridge = firstP.Estimate
	}

	out := make([]ChartPoint, 0, len(bySeason))
	for _, p := range bySeason {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b ChartPoint) int { return a.Season - b.Season })
	return out
}

var defaultYDomain = [2]int{4, 20}

// YDomain returns the vertical axis range for a career chart: three units of
// padding around every band edge and point value, never below 1.
func YDomain(points []ChartPoint) [2]int {
	lo, hi := math.Inf(1), math.Inf(-1)
	add := func(v float64) {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	for _, d := range points {
		for _, series := range [][3]*float64{{d.Lower0, d.Band, orElse(d.Actual, d.Estimate)}, {d.CLower0, d.CBand, orElse(d.CActual, d.CEstimate)}} {
			low, band, value := series[0], series[1], series[2]
			if finitePtr(low) {
				add(*low)
				if finitePtr(band) {
					add(*low + *band)
				}
			}
			if finitePtr(value) {
				add(*value)
			}
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return defaultYDomain
	}

	minV, maxV := lo-3, hi+3
	if minV == maxV {
		minV--
		maxV++
	}
	minFinal := max(1, int(math.Floor(minV)))
	maxFinal := max(minFinal+1, int(math.Ceil(maxV)))
	return [2]int{minFinal, maxFinal}
}

// LastActual is the snapshot point of a trajectory: the last actual season,
// else the last unbanded estimate, else the first point.
func LastActual(traj []TrajectoryPoint) *TrajectoryPoint {
	for i := len(traj) - 1; i >= 0; i-- {
		if traj[i].Actual != nil {
			return &traj[i]
		}
	}
	for i := len(traj) - 1; i >= 0; i-- {
		if traj[i].Estimate != nil && traj[i].Band == nil {
			return &traj[i]
		}
	}
	if len(traj) > 0 {
		return &traj[0]
	}
	return nil
}

func NextProjection(traj []TrajectoryPoint) *TrajectoryPoint {
	for i := range traj {
		if traj[i].Estimate != nil {
			return &traj[i]
		}
	}
	return nil
}

type OutcomeProbs struct {
	AA    *float64 `json:"AA"`
	Games *float64 `json:"Games"`
}

// clamp01 reads v as a probability. Values in (1, 100] are percentages and
// anything larger is not a probability.
func clamp01(v *float64) *float64 {
	if !finitePtr(v) || *v > 100 {
		return nil
	}
	x := *v
	if x > 1 {
		x /= 100
	}
	return ptr(math.Max(0, math.Min(1, x)))
}

// Outcomes returns the All-Australian and games-milestone probabilities,
// preferring the player's projection row over the career trajectory.
func Outcomes(projections []dataset.PlayerProjection, playerID string, traj []TrajectoryPoint) OutcomeProbs {
	var out OutcomeProbs
	if playerID != "" {
		for _, p := range projections {
			if p.PlayerID == playerID {
				out.AA = clamp01(ptr(p.AA))
				out.Games = clamp01(ptr(p.Games))
				break
			}
		}
	}

	fromTrajectory := func(pick func(TrajectoryPoint) *float64) *float64 {
		for _, d := range traj {
			if d.Horizon == 1 && pick(d) != nil {
				if v := clamp01(pick(d)); v != nil {
					return v
				}
				break
			}
		}
		for _, d := range traj {
			if v := clamp01(pick(d)); v != nil {
				return v
			}
		}
		return nil
	}
	if out.AA == nil {
		out.AA = fromTrajectory(func(d TrajectoryPoint) *float64 { return d.AA })
	}
	if out.Games == nil {
		out.Games = fromTrajectory(func(d TrajectoryPoint) *float64 { return d.Games })
	}
	return out
}

type RankInfo struct {
	All      *float64 `json:"all"`
	Pos      *float64 `json:"pos"`
	TotalAll *int     `json:"totalAll"`
	TotalPos *int     `json:"totalPos"`
}

// Rank places the player among the snapshot season's players. Published ranks
// win; otherwise players are ordered by their best estimate.
func Rank(rows []dataset.CareerProjection, playerID string, snap *TrajectoryPoint) RankInfo {
	if playerID == "" || snap == nil {
		return RankInfo{}
	}
	season := snap.Season

	var seasonRows, actualRows []dataset.CareerProjection
	for _, r := range rows {
		if r.Season != season {
			continue
		}
		seasonRows = append(seasonRows, r)
		if r.IsActual() {
			actualRows = append(actualRows, r)
		}
	}
	usable := seasonRows
	if len(actualRows) > 0 {
		usable = actualRows
	}

	var playerRow *dataset.CareerProjection
	for _, set := range [][]dataset.CareerProjection{usable, seasonRows} {
		for i := range set {
			if set[i].SourceProviderID == playerID {
				playerRow = &set[i]
				break
			}
		}
		if playerRow != nil {
			break
		}
	}
	playerPos := ""
	if playerRow != nil {
		playerPos = strings.TrimSpace(playerRow.SourcePosition)
	}

	type entry struct {
		id     string
		pos    string
		rating float64
	}
	var order []string
	best := map[string]entry{}
	for _, r := range usable {
		if r.SourceProviderID == "" || r.Estimate == nil {
			continue
		}
		prev, ok := best[r.SourceProviderID]
		if !ok {
			order = append(order, r.SourceProviderID)
		}
		if !ok || *r.Estimate > prev.rating {
			best[r.SourceProviderID] = entry{id: r.SourceProviderID, pos: strings.TrimSpace(r.SourcePosition), rating: *r.Estimate}
		}
	}
	all := make([]entry, 0, len(order))
	for _, id := range order {
		all = append(all, best[id])
	}
	slices.SortStableFunc(all, func(a, b entry) int { return cmp.Compare(b.rating, a.rating) })

	var byPos []entry
	if playerPos != "" {
		for _, e := range all {
			if e.pos == playerPos {
				byPos = append(byPos, e)
			}
		}
	}

	info := RankInfo{}
	if len(all) > 0 {
		info.TotalAll = ptr(len(all))
	}
	if len(byPos) > 0 {
		info.TotalPos = ptr(len(byPos))
	}

	if playerRow != nil && (playerRow.RankAll != nil || playerRow.RankPos != nil) {
		info.All, info.Pos = playerRow.RankAll, playerRow.RankPos
		return info
	}
	for i, e := range all {
		if e.id == playerID {
			info.All = ptr(float64(i + 1))
			break
		}
	}
	for i, e := range byPos {
		if e.id == playerID {
			info.Pos = ptr(float64(i + 1))
			break
		}
	}
	return info
}

// CareerKPIs builds the four career cards: market value, overall rank,
// positional rank and vitals.
func CareerKPIs(rows []dataset.CareerProjection, playerID string, traj []TrajectoryPoint, rank RankInfo) []KPICard {
	last, next := LastActual(traj), NextProjection(traj)

	var mv *float64
	if next != nil {
		mv = next.Salary
	}
	if mv == nil && last != nil {
		mv = last.Salary
	}
	market := KPICard{Label: "Market Value", Value: Placeholder}
	if mv != nil {
		market.Value = "$" + strconv.FormatFloat(roundHalfUp(*mv/1000), 'f', 0, 64) + "k"
	}
	if last != nil {
		var total float64
		for _, d := range traj {
			if d.Season > last.Season && d.Salary != nil {
				total += *d.Salary
			}
		}
		market.Sub = "Career value: " + FmtAUD(total)
	}

	rankAll := KPICard{Label: "Rank (AFL)", Value: Placeholder}
	if rank.All != nil {
		rankAll.Value = Ordinal(*rank.All)
	}
	if rank.TotalAll != nil {
		rankAll.Sub = "out of " + strconv.Itoa(*rank.TotalAll) + " players"
	}

	rankPos := KPICard{Label: "Rank (Position)", Value: Placeholder}
	if rank.Pos != nil {
		rankPos.Value = Ordinal(*rank.Pos)
	}
	if rank.TotalPos != nil {
		rankPos.Sub = "out of " + strconv.Itoa(*rank.TotalPos) + " position players"
	}

	height, age, drafted := vitals(rows, playerID)
	vit := KPICard{Label: "Vitals", Value: Placeholder}
	if height != "" {
		vit.Value = height
	}
	ageText, draftText := "Age "+Placeholder, "Draft "+Placeholder
	if age != "" {
		ageText = "Age " + age
	}
	if drafted != "" {
		draftText = drafted
	}
	vit.Sub = ageText + " • " + draftText

	return []KPICard{market, rankAll, rankPos, vit}
}

func vitals(rows []dataset.CareerProjection, playerID string) (height, age, drafted string) {
	if playerID == "" {
		return "", "", ""
	}
	var first *dataset.CareerProjection
	for i := range rows {
		r := &rows[i]
		if r.SourceProviderID != playerID {
			continue
		}
		if r.Height != "" || r.Age != "" || r.Drafted != "" {
			return r.Height, r.Age, r.Drafted
		}
		if first == nil {
			first = r
		}
	}
	if first == nil {
		return "", "", ""
	}
	return first.Height, first.Age, first.Drafted
}

// AdvancedMetric is one labelled advanced-stat column.
type AdvancedMetric struct {
	Label string
	Key   dataset.StatKey
}

var AdvancedMetrics = []AdvancedMetric{
	{Label: "Ball Use", Key: dataset.StatBallUse},
	{Label: "Kicking", Key: dataset.StatKicking},
	{Label: "Handballing", Key: dataset.StatHandballing},
	{Label: "Transition", Key: dataset.StatTransitionBallUse},
	{Label: "Post clearance", Key: dataset.StatPostClearanceBallUse},
	{Label: "Clearance", Key: dataset.StatClearanceBallUse},
	{Label: "Ball Winning", Key: dataset.StatBallWinning},
	{Label: "Intercepts", Key: dataset.StatIntercepts},
	{Label: "Aerial", Key: dataset.StatAerial},
	{Label: "Ground", Key: dataset.StatGround},
	{Label: "Run/Carry", Key: dataset.StatRunCarry},
	{Label: "TO-Transition", Key: dataset.StatTurnoverTransitionBallWinning},
	{Label: "Stopp-Transition", Key: dataset.StatStoppageTransitionBallWinning},
	{Label: "Pre clearance", Key: dataset.StatPreClearanceBallWinning},
	{Label: "Spoiling", Key: dataset.StatSpoiling},
}

// Distributions holds sorted advanced-stat values per season and metric.
type Distributions map[int]map[dataset.StatKey][]float64

// BuildDistributions keeps one row per player per season, preferring actual rows.
func BuildDistributions(rows []dataset.CareerProjection) Distributions {
	type seasonRows struct {
		order []string
		byID  map[string]dataset.CareerProjection
	}
	seasons := map[int]*seasonRows{}
	for _, r := range rows {
		if r.SourceProviderID == "" {
			continue
		}
		s, ok := seasons[r.Season]
		if !ok {
			s = &seasonRows{byID: map[string]dataset.CareerProjection{}}
			seasons[r.Season] = s
		}
		prev, ok := s.byID[r.SourceProviderID]
		switch {
		case !ok:
			s.order = append(s.order, r.SourceProviderID)
			s.byID[r.SourceProviderID] = r
		case !prev.IsActual() && r.IsActual():
			s.byID[r.SourceProviderID] = r
		}
	}

	out := make(Distributions, len(seasons))
	for season, s := range seasons {
		buckets := make(map[dataset.StatKey][]float64, len(AdvancedMetrics))
		for _, m := range AdvancedMetrics {
			buckets[m.Key] = []float64{}
		}
		for _, id := range s.order {
			row := s.byID[id]
			for _, m := range AdvancedMetrics {
				if v, ok := row.Stats[m.Key]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
					buckets[m.Key] = append(buckets[m.Key], v)
				}
			}
		}
		for k := range buckets {
			slices.Sort(buckets[k])
		}
		out[season] = buckets
	}
	return out
}

// Percentile is the mid-rank percentile of v in an ascending distribution.
func Percentile(v float64, sorted []float64) *float64 {
	n := len(sorted)
	if n == 0 {
		return nil
	}
	firstGE := sort.SearchFloat64s(sorted, v)
	firstGT := sort.Search(n, func(i int) bool { return sorted[i] > v })
	eq := max(0, firstGT-firstGE)
	return ptr((float64(firstGE) + 0.5*float64(eq)) / float64(n) * 100)
}

type SkillRow struct {
	Label string   `json:"label"`
	P     *float64 `json:"p"`
}

// AdvancedSkillRows scores the player's snapshot season against the league.
func AdvancedSkillRows(traj []TrajectoryPoint, dist Distributions) []SkillRow {
	snap := LastActual(traj)
	if snap == nil {
		snap = NextProjection(traj)
	}

	out := make([]SkillRow, 0, len(AdvancedMetrics))
	for _, m := range AdvancedMetrics {
		row := SkillRow{Label: m.Label}
		if snap != nil {
			if v, ok := snap.Stats[m.Key]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
				row.P = Percentile(v, dist[snap.Season][m.Key])
			}
		}
		out = append(out, row)
	}
	return out
}

// MinCompareSample is the population below which a stat percentile is not shown.
const MinCompareSample = 8

var compareCategoryOrder = []string{"Ball Use", "Ball Winning", "Defence", "Pressure", "Stoppage", "Scoreboard Impact", "Ruck"}

type CompareGroup struct {
	Category string       `json:"category"`
	Rows     []CompareRow `json:"rows"`
}

// PlayerCompare ranks two players' season stats as league percentiles, grouped by category.
func PlayerCompare(stats []dataset.PlayerStatsAgg, season int, aID, bID string) []CompareGroup {
	if aID == "" || bID == "" {
		return []CompareGroup{}
	}

	type metricRec struct {
		category string
		vals     []float64
		a, b     *float64
	}
	var order []string
	byMetric := map[string]*metricRec{}
	for _, r := range stats {
		if r.Season != season {
			continue
		}
		metric := strings.TrimSpace(r.MetricName)
		if metric == "" {
			continue
		}
		rec, ok := byMetric[metric]
		if !ok {
			cat := strings.TrimSpace(r.Category)
			if cat == "" {
				cat = "Other"
			}
			rec = &metricRec{category: cat}
			byMetric[metric] = rec
			order = append(order, metric)
		}
		if !math.IsNaN(r.MetricValue) && !math.IsInf(r.MetricValue, 0) {
			rec.vals = append(rec.vals, r.MetricValue)
		}
		if r.PlayerID == aID {
			rec.a = ptr(r.MetricValue)
		}
		if r.PlayerID == bID {
			rec.b = ptr(r.MetricValue)
		}
	}

	var catOrder []string
	grouped := map[string]*CompareGroup{}
	for _, metric := range order {
		rec := byMetric[metric]
		if rec.a == nil || rec.b == nil || len(rec.vals) < MinCompareSample {
			continue
		}
		slices.Sort(rec.vals)
		a, b := Percentile(*rec.a, rec.vals), Percentile(*rec.b, rec.vals)
		g, ok := grouped[rec.category]
		if !ok {
			g = &CompareGroup{Category: rec.category}
			grouped[rec.category] = g
			catOrder = append(catOrder, rec.category)
		}
		g.Rows = append(g.Rows, CompareRow{Metric: metric, A: *a, B: *b, Diff: *a - *b})
	}

	out := make([]CompareGroup, 0, len(catOrder))
	for _, c := range catOrder {
		g := grouped[c]
		slices.SortStableFunc(g.Rows, func(x, y CompareRow) int { return strings.Compare(x.Metric, y.Metric) })
		out = append(out, *g)
	}
	slices.SortStableFunc(out, func(x, y CompareGroup) int {
		ix, iy := slices.Index(compareCategoryOrder, x.Category), slices.Index(compareCategoryOrder, y.Category)
		switch {
		case ix == -1 && iy == -1:
			return strings.Compare(x.Category, y.Category)
		case ix == -1:
			return 1
		case iy == -1:
			return -1
		default:
			return ix - iy
		}
	})
	return out
}

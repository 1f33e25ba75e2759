package analytics

import (
	"strings"

	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

type TeamQuery struct {
	TeamID        string
	Season        int
	CompareTeamID string
}

type TeamRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Key   string `json:"key"`
	Color string `json:"color"`
}

// ResolveTeam turns a club id into its display name, canonical key and color.
func ResolveTeam(id string) TeamRef {
	name := club.NameForID(id)
	key := club.NormalizeName(name)
	return TeamRef{ID: id, Name: name, Key: key, Color: club.PrimaryColor(key)}
}

type TeamCompare struct {
	Team        TeamRef        `json:"team"`
	AgeShares   []AgeShare     `json:"ageShares"`
	Acquisition []ShareRow     `json:"acquisition"`
	Tables      TeamComparison `json:"tables"`
}

type TeamDashboard struct {
	Team         TeamRef          `json:"team"`
	Season       int              `json:"season"`
	UsedSeason   int              `json:"usedSeason"`
	YearPills    []int            `json:"yearPills"`
	KPIs         []KPICard        `json:"kpis"`
	AgeHistogram []AgeBin         `json:"ageHistogram"`
	AgeShares    []AgeShare       `json:"ageShares"`
	TeamAvgAge   *float64         `json:"teamAvgAge"`
	LeagueAvgAge *float64         `json:"leagueAvgAge"`
	RankTrend    []RankPoint      `json:"rankTrend"`
	Acquisition  []ShareRow       `json:"acquisition"`
	SkillRadar   []RadarAxis      `json:"skillRadar"`
	PlayerTable  []PlayerTableRow `json:"playerTable"`
	Compare      *TeamCompare     `json:"compare,omitempty"`
}

// BuildTeamDashboard derives every team panel for one selection.
func BuildTeamDashboard(snap *dataset.Snapshot, q TeamQuery) TeamDashboard {
	if snap == nil {
		snap = &dataset.Snapshot{}
	}
	team := ResolveTeam(q.TeamID)
	players, used := RosterForSeason(snap.Roster, team.Key, q.Season)
	shares := AgeCategoryShare(players)
	acq := AcquisitionShare(snap.Acquisitions, team.Key, q.Season)
	radar := SkillRadar(snap.SkillRadar, team.Key, q.Season)

	out := TeamDashboard{
		Team:         team,
		Season:       q.Season,
		UsedSeason:   used,
		YearPills:    YearPills(snap.TeamKPIs, team.Key),
		KPIs:         KPICards(snap, team.Key, q.Season),
		AgeHistogram: AgeHistogram(players),
		AgeShares:    shares,
		TeamAvgAge:   AverageAge(players),
		LeagueAvgAge: LeagueAverageAge(snap.Roster, used),
		RankTrend:    RankTrend(snap.RankSeries, team.Key),
		Acquisition:  acq,
		SkillRadar:   radar,
		PlayerTable:  PlayerTable(snap.PlayerProjections, team.Key, q.Season),
	}

	if q.CompareTeamID == "" {
		return out
	}
	other := ResolveTeam(q.CompareTeamID)
	otherPlayers, _ := RosterForSeason(snap.Roster, other.Key, q.Season)
	otherShares := AgeCategoryShare(otherPlayers)
	otherAcq := AcquisitionShare(snap.Acquisitions, other.Key, q.Season)
	otherRadar := SkillRadar(snap.SkillRadar, other.Key, q.Season)

	out.SkillRadar = MergeRadar(radar, otherRadar)
	out.Compare = &TeamCompare{
		Team:        other,
		AgeShares:   otherShares,
		Acquisition: otherAcq,
		Tables: CompareTeams(
			TeamSide{KPI: TeamKPIFor(snap.TeamKPIs, team.Key, q.Season), AgeShares: shares, Acquisition: acq, Radar: radar},
			TeamSide{KPI: TeamKPIFor(snap.TeamKPIs, other.Key, q.Season), AgeShares: otherShares, Acquisition: otherAcq, Radar: otherRadar},
		),
	}
	return out
}

type CareerQuery struct {
	PlayerID        string
	TeamID          string
	ComparePlayerID string
	Outlook         Outlook
}

type ComparePlayer struct {
	Player      PlayerRef         `json:"player"`
	Color       string            `json:"color"`
	Outcomes    OutcomeProbs      `json:"outcomes"`
	StatCompare []CompareGroup    `json:"statCompare"`
	Trajectory  []TrajectoryPoint `json:"trajectory"`
}

type PlayerCareer struct {
	Team           TeamRef        `json:"team"`
	Outlook        Outlook        `json:"outlook"`
	Players        []PlayerRef    `json:"players"`
	Player         *PlayerRef     `json:"player"`
	SnapshotSeason *int           `json:"snapshotSeason"`
	Chart          []ChartPoint   `json:"chart"`
	YDomain        [2]int         `json:"yDomain"`
	KPIs           []KPICard      `json:"kpis"`
	Rank           RankInfo       `json:"rank"`
	Outcomes       OutcomeProbs   `json:"outcomes"`
	AdvancedSkills []SkillRow     `json:"advancedSkills"`
	Compare        *ComparePlayer `json:"compare,omitempty"`
}

// BuildPlayerCareer derives the career page. dist may be nil, in which case it
// is built from the snapshot.
func BuildPlayerCareer(snap *dataset.Snapshot, dist Distributions, q CareerQuery) PlayerCareer {
	if snap == nil {
		snap = &dataset.Snapshot{}
	}
	if dist == nil {
		dist = BuildDistributions(snap.CareerProjections)
	}
	outlook := ParseOutlook(string(q.Outlook))
	team := ResolveTeam(q.TeamID)
	players := ClubPlayers(snap.CareerProjections, team.Key)

	out := PlayerCareer{
		Team:    team,
		Outlook: outlook,
		Players: players,
		YDomain: defaultYDomain,
	}

	player, ok := SelectPlayer(players, q.PlayerID)
	if !ok {
		out.Chart = []ChartPoint{}
		out.KPIs = CareerKPIs(nil, "", nil, RankInfo{})
		out.AdvancedSkills = AdvancedSkillRows(nil, dist)
		return out
	}
	out.Player = &player

	traj := Trajectory(snap.CareerProjections, player.ID, outlook)
	last := LastActual(traj)
	if last != nil {
		out.SnapshotSeason = ptr(last.Season)
	}
	rank := Rank(snap.CareerProjections, player.ID, last)
	out.Rank = rank
	out.KPIs = CareerKPIs(snap.CareerProjections, player.ID, traj, rank)
	out.Outcomes = Outcomes(snap.PlayerProjections, player.ID, traj)
	out.AdvancedSkills = AdvancedSkillRows(traj, dist)

	var compareTraj []TrajectoryPoint
	if other, ok := FindPlayer(AllPlayers(snap.CareerProjections), q.ComparePlayerID); ok && other.ID != player.ID {
		compareTraj = Trajectory(snap.CareerProjections, other.ID, outlook)
		cmpPlayer := &ComparePlayer{
			Player:      other,
			Color:       compareColor(compareTraj),
			Outcomes:    Outcomes(snap.PlayerProjections, other.ID, compareTraj),
			StatCompare: []CompareGroup{},
			Trajectory:  compareTraj,
		}
		if last != nil {
			cmpPlayer.StatCompare = PlayerCompare(snap.PlayerStats, last.Season, player.ID, other.ID)
		}
		out.Compare = cmpPlayer
	}

	out.Chart = MergeTrajectories(traj, compareTraj)
	out.YDomain = YDomain(out.Chart)
	return out
}

func compareColor(traj []TrajectoryPoint) string {
	for _, d := range traj {
		if t := strings.TrimSpace(d.Team); t != "" {
			return club.PrimaryColor(club.NormalizeName(t))
		}
	}
	return club.DefaultColor
}

package selection

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/afl-dashboard/internal/analytics"
	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/normalize"
)

const DefaultSeason = 2025

type Page string

const (
	PageTeam   Page = "team"
	PageCareer Page = "career"
)

// State is the dashboard selection. The URL is derived from it, never the other way round
// except through Navigate.
type State struct {
	TeamID             string            `json:"teamId"`
	Season             int               `json:"season"`
	Page               Page              `json:"page"`
	PlayerID           string            `json:"playerId"`
	CompareTeamID      string            `json:"compareTeamId"`
	ComparePlayerID    string            `json:"comparePlayerId"`
	Outlook            analytics.Outlook `json:"outlook"`
	PlayerTeamResolved bool              `json:"playerTeamResolved"`
	ExplicitTeam       bool              `json:"explicitTeam"`
}

func Initial() State {
	return State{
		TeamID:  club.DefaultTeamID,
		Season:  DefaultSeason,
		Page:    PageTeam,
		Outlook: analytics.OutlookNeutral,
	}
}

// Location is a parsed dashboard URL.
type Location struct {
	Page     Page
	TeamID   string
	PlayerID string
	Query    url.Values
	// Redirect is set for any path other than /team/{id} and /player/{id}.
	Redirect bool
	// Current is the path plus query as it should be compared with a canonical URL.
	Current string
}

const defaultPath = "/team/" + club.DefaultTeamID

func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, err
	}

	loc := Location{Query: u.Query(), Current: u.EscapedPath()}
	if u.RawQuery != "" {
		loc.Current += "?" + u.RawQuery
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 2 && parts[1] != "" {
		switch parts[0] {
		case "team":
			loc.Page, loc.TeamID = PageTeam, parts[1]
			return loc, nil
		case "player":
			loc.Page, loc.PlayerID = PageCareer, parts[1]
			return loc, nil
		}
	}

	loc.Page, loc.TeamID, loc.Redirect = PageTeam, club.DefaultTeamID, true
	loc.Query = url.Values{}
	return loc, nil
}

// CanonicalURL renders the shareable URL of s. A career page without a
// player has no canonical form yet.
func CanonicalURL(s State) (string, bool) {
	season := url.QueryEscape(strconv.Itoa(s.Season))
	if s.Page != PageCareer {
		team := s.TeamID
		if team == "" {
			team = club.DefaultTeamID
		}
		return "/team/" + team + "?season=" + season, true
	}

	pid := normalize.PlayerID(s.PlayerID)
	if pid == "" {
		return "", false
	}
	path := "/player/" + url.PathEscape(pid)
	if s.PlayerTeamResolved || s.ExplicitTeam {
		return path + "?team=" + url.QueryEscape(s.TeamID) + "&season=" + season, true
	}
	return path + "?season=" + season, true
}

// InferTeamFromRoster finds the club the player was listed at in season.
func InferTeamFromRoster(roster []dataset.RosterPlayer, playerID string, season int) (string, bool) {
	pid := normalize.PlayerID(playerID)
	if pid == "" {
		return "", false
	}
	for _, r := range roster {
		if r.ProviderID != pid || r.Season != season || r.Team == "" {
			continue
		}
		if t, ok := club.ByKey(club.NormalizeName(r.Team)); ok {
			return t.ID, true
		}
		return "", false
	}
	return "", false
}

func parseSeason(raw string, prev int) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		return DefaultSeason
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return prev
	}
	return int(n)
}

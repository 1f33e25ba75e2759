package selection

import (
	"strings"

	"github.com/riskibarqy/afl-dashboard/internal/analytics"
	"github.com/riskibarqy/afl-dashboard/internal/domain/club"
	"github.com/riskibarqy/afl-dashboard/internal/normalize"
)

// Action changes one concern of the selection.
type Action interface {
	apply(State) State
}

// Navigate applies a URL, as when a link is opened or the address bar changes.
type Navigate struct{ URL string }

type SetTeam struct{ TeamID string }

type SetSeason struct{ Season int }

// SelectPlayer opens the career page of a player.
type SelectPlayer struct{ PlayerID string }

type SetCompareTeam struct{ TeamID string }

type SetComparePlayer struct{ PlayerID string }

type SetOutlook struct{ Outlook string }

// InferTeam sets the team found for the current player in the roster.
type InferTeam struct{ TeamID string }

// Reduce returns the state after a. Changing the team clears the compare team,
// and a compare player equal to the player is cleared.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	next := a.apply(s)
	if next.TeamID != s.TeamID {
		next.CompareTeamID = ""
	}
	if next.ComparePlayerID != "" && next.ComparePlayerID == next.PlayerID {
		next.ComparePlayerID = ""
	}
	return next
}

func (a Navigate) apply(s State) State {
	loc, err := ParseLocation(a.URL)
	if err != nil {
		return s
	}

	s.Season = parseSeason(loc.Query.Get("season"), s.Season)
	qTeam := strings.TrimSpace(loc.Query.Get("team"))
	s.ExplicitTeam = qTeam != ""

	if loc.Page == PageTeam {
		raw := loc.TeamID
		if raw == "" {
			raw = qTeam
		}
		if raw == "" {
			raw = club.DefaultTeamID
		}
		s.Page = PageTeam
		s.TeamID = club.CoerceTeamID(raw)
		return s
	}

	s.Page = PageCareer
	if id := club.CoerceTeamID(qTeam); id != "" {
		s.TeamID = id
		s.PlayerTeamResolved = true
	}
	if rid := normalize.PlayerID(loc.PlayerID); rid != "" {
		s.PlayerID = rid
		if qTeam == "" {
			s.PlayerTeamResolved = false
		}
	}
	return s
}

func (a SetTeam) apply(s State) State {
	id := club.CoerceTeamID(a.TeamID)
	if id == "" {
		id = club.DefaultTeamID
	}
	s.TeamID = id
	return s
}

func (a SetSeason) apply(s State) State {
	s.Season = a.Season
	return s
}

func (a SelectPlayer) apply(s State) State {
	pid := normalize.PlayerID(a.PlayerID)
	if pid == "" {
		return s
	}
	if pid != s.PlayerID && !s.ExplicitTeam {
		s.PlayerTeamResolved = false
	}
	s.PlayerID = pid
	s.Page = PageCareer
	return s
}

func (a SetCompareTeam) apply(s State) State {
	s.CompareTeamID = club.CoerceTeamID(a.TeamID)
	if s.CompareTeamID == s.TeamID {
		s.CompareTeamID = ""
	}
	return s
}

func (a SetComparePlayer) apply(s State) State {
	s.ComparePlayerID = normalize.PlayerID(a.PlayerID)
	return s
}

func (a SetOutlook) apply(s State) State {
	s.Outlook = analytics.ParseOutlook(a.Outlook)
	return s
}

func (a InferTeam) apply(s State) State {
	if s.Page != PageCareer || s.PlayerID == "" || a.TeamID == "" {
		return s
	}
	s.TeamID = a.TeamID
	s.PlayerTeamResolved = true
	return s
}

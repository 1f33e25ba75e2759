package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/analytics"
	"github.com/riskibarqy/afl-dashboard/internal/selection"
	"github.com/riskibarqy/afl-dashboard/internal/viewstate"
)

type RouteResolution struct {
	State        selection.State   `json:"state"`
	CanonicalURL string            `json:"canonicalUrl"`
	Replaced     bool              `json:"replaced"`
	Team         analytics.TeamRef `json:"team"`
}

// RouteService resolves deep links into a selection with its canonical URL.
type RouteService struct {
	store *viewstate.Store
}

func NewRouteService(store *viewstate.Store) *RouteService {
	return &RouteService{store: store}
}

func (s *RouteService) Resolve(ctx context.Context, rawURL string) (RouteResolution, error) {
	_, span := startSpan(ctx, "usecase.RouteService.Resolve")
	defer span.End()

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return RouteResolution{}, errors.Wrap(ErrInvalidInput, "url is required")
	}
	loc, err := selection.ParseLocation(rawURL)
	if err != nil {
		return RouteResolution{}, errors.Wrapf(ErrInvalidInput, "parse url: %v", err)
	}

	m := selection.NewMachine(rawURL, nil)
	state := m.State()
	if state.Page == selection.PageCareer && !state.PlayerTeamResolved {
		if view := s.store.Current(); view.Ready() {
			if teamID, ok := selection.InferTeamFromRoster(view.Snapshot.Roster, state.PlayerID, state.Season); ok {
				state = m.Dispatch(selection.InferTeam{TeamID: teamID})
			}
		}
	}

	return RouteResolution{
		State:        state,
		CanonicalURL: m.URL(),
		Replaced:     m.URL() != loc.Current,
		Team:         analytics.ResolveTeam(state.TeamID),
	}, nil
}

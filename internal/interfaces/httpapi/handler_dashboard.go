package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusDTO struct {
	Ready    bool                 `json:"ready"`
	Version  uint64               `json:"version"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
	LoadedAt *time.Time           `json:"loadedAt,omitempty"`
	Rows     map[dataset.Kind]int `json:"rows"`
	Dropped  map[dataset.Kind]int `json:"dropped"`
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.statusDTO())
}

func (h *Handler) statusDTO() statusDTO {
	if h.loader == nil {
		return statusDTO{Rows: map[dataset.Kind]int{}, Dropped: map[dataset.Kind]int{}}
	}
	view := h.loader.Current()
	out := statusDTO{
		Ready:   view.Ready(),
		Version: view.Version,
		Loading: view.Loading,
		Rows:    view.Snapshot.Counts(),
		Dropped: view.Dropped,
	}
	if out.Dropped == nil {
		out.Dropped = map[dataset.Kind]int{}
	}
	if view.Err != nil {
		out.Error = view.Err.Error()
	}
	if !view.LoadedAt.IsZero() {
		loadedAt := view.LoadedAt.UTC()
		out.LoadedAt = &loadedAt
	}
	return out
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.dashboard.Teams())
}

type teamDashboardRequest struct {
	TeamID  string `validate:"required,max=64"`
	Season  int    `validate:"omitempty,min=1897,max=2100"`
	Compare string `validate:"max=64"`
}

func (h *Handler) GetTeamDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDashboard")
	defer span.End()

	season, err := parseOptionalInt("season", r.URL.Query().Get("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := teamDashboardRequest{
		TeamID:  strings.TrimSpace(r.PathValue("teamID")),
		Season:  season,
		Compare: strings.TrimSpace(r.URL.Query().Get("compare")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	dashboard, err := h.dashboard.TeamDashboard(ctx, req.TeamID, req.Season, req.Compare)
	if err != nil {
		h.logger.WarnContext(ctx, "team dashboard failed", "team_id", req.TeamID, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboard)
}

type playerCareerRequest struct {
	PlayerID string `validate:"required,max=64"`
	TeamID   string `validate:"max=64"`
	Compare  string `validate:"max=64"`
	Outlook  string `validate:"omitempty,oneof=neutral optimistic pessimistic"`
	Season   int    `validate:"omitempty,min=1897,max=2100"`
}

func (h *Handler) GetPlayerCareer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerCareer")
	defer span.End()

	q := r.URL.Query()
	season, err := parseOptionalInt("season", q.Get("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := playerCareerRequest{
		PlayerID: strings.TrimSpace(r.PathValue("playerID")),
		TeamID:   strings.TrimSpace(q.Get("team")),
		Compare:  strings.TrimSpace(q.Get("compare")),
		Outlook:  strings.ToLower(strings.TrimSpace(q.Get("outlook"))),
		Season:   season,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	career, err := h.dashboard.PlayerCareer(ctx, usecase.CareerQuery{
		PlayerID:        req.PlayerID,
		TeamID:          req.TeamID,
		ComparePlayerID: req.Compare,
		Outlook:         req.Outlook,
		Season:          req.Season,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "player career failed", "player_id", req.PlayerID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, career)
}

type resolveRouteRequest struct {
	URL string `validate:"required,max=2048"`
}

func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveRoute")
	defer span.End()

	req := resolveRouteRequest{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resolved, err := h.routes.Resolve(ctx, req.URL)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolved)
}

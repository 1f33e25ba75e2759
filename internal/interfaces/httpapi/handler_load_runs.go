package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

const reloadTimeout = 2 * time.Minute

type loadRunDTO struct {
	loadrun.Run
	DurationMS int64 `json:"durationMs"`
}

func loadRunToDTO(run loadrun.Run) loadRunDTO {
	return loadRunDTO{Run: run, DurationMS: run.Duration().Milliseconds()}
}

type listLoadRunsRequest struct {
	Limit int `validate:"omitempty,min=1,max=200"`
}

func (h *Handler) ListLoadRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLoadRuns")
	defer span.End()

	limit, err := parseOptionalInt("limit", r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := listLoadRunsRequest{Limit: limit}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.loadRuns.List(ctx, req.Limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list load runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]loadRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, loadRunToDTO(run))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLoadRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLoadRun")
	defer span.End()

	runID := strings.TrimSpace(r.PathValue("runID"))
	run, err := h.loadRuns.Get(ctx, runID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, loadRunToDTO(run))
}

// Reload runs a full dataset load and answers with the resulting status.
// The load is detached from the caller so a dropped connection does not
// abort it.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Reload")
	defer span.End()

	if h.loader == nil {
		writeError(ctx, w, errors.Wrap(usecase.ErrDependencyUnavailable, "loader is not configured"))
		return
	}

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reloadTimeout)
	defer cancel()

	if _, err := h.loader.LoadAll(loadCtx); err != nil {
		h.logger.ErrorContext(ctx, "reload failed", "error", err)
		writeError(ctx, w, errors.Mark(errors.Wrap(err, "reload datasets"), usecase.ErrDependencyUnavailable))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.statusDTO())
}

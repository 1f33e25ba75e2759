package httpapi

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

// GetData serves one allow-listed CSV as a JSON array of typed rows.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetData")
	defer span.End()

	if h.dataKey == "" {
		writeText(w, http.StatusInternalServerError, "Server misconfigured: missing DATA_API_KEY")
		return
	}
	if !tokensEqual(r.Header.Get(dataKeyHeader), h.dataKey) {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file := strings.TrimSpace(r.URL.Query().Get("file"))
	if !dataset.IsAllowed(file) {
		writeText(w, http.StatusBadRequest, "Invalid file")
		return
	}

	rows, err := h.data.Rows(ctx, file)
	if err != nil {
		var parseErrs dataset.ParseErrors
		switch {
		case errors.As(err, &parseErrs):
			h.logger.WarnContext(ctx, "csv parse failed", "file", file, "errors", len(parseErrs))
			writeParseErrors(w, parseErrs)
		case errors.Is(err, usecase.ErrInvalidInput):
			writeText(w, http.StatusBadRequest, "Invalid file")
		case errors.Is(err, usecase.ErrMisconfigured):
			h.logger.ErrorContext(ctx, "data endpoint misconfigured", "error", err)
			writeText(w, http.StatusInternalServerError, err.Error())
		default:
			h.logger.ErrorContext(ctx, "read dataset failed", "file", file, "error", err)
			writeText(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeRows(ctx, w, rows)
}

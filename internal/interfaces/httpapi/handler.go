package httpapi

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

type HandlerDeps struct {
	Dashboard *usecase.DashboardService
	Routes    *usecase.RouteService
	LoadRuns  *usecase.LoadRunService
	Loader    *usecase.LoaderService
	Data      *usecase.DataService

	// DataAPIKey guards /api/data. An empty key makes the endpoint answer 500.
	DataAPIKey string
	Logger     *logging.Logger
}

type Handler struct {
	dashboard *usecase.DashboardService
	routes    *usecase.RouteService
	loadRuns  *usecase.LoadRunService
	loader    *usecase.LoaderService
	data      *usecase.DataService
	dataKey   string
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		dashboard: deps.Dashboard,
		routes:    deps.Routes,
		loadRuns:  deps.LoadRuns,
		loader:    deps.Loader,
		data:      deps.Data,
		dataKey:   strings.TrimSpace(deps.DataAPIKey),
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "validation failed: %v", err)
	}

	return nil
}

func parseOptionalInt(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(usecase.ErrInvalidInput, "%s must be an integer", name)
	}
	return v, nil
}

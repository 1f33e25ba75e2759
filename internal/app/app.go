package app

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/afl-dashboard/internal/config"
	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/blob"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/dataapi"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/afl-dashboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/afl-dashboard/internal/platform/cache"
	idgen "github.com/riskibarqy/afl-dashboard/internal/platform/id"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
	"github.com/riskibarqy/afl-dashboard/internal/viewstate"
)

const memoryLoadRunCapacity = loadrun.MaxListLimit

// App is the wired service: the HTTP server plus the loader that fills the
// view it serves.
type App struct {
	Server *http.Server
	Loader *usecase.LoaderService

	store *viewstate.Store
	db    *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("http server addr cannot be empty")
	}

	objects, err := newObjectStore(cfg)
	if err != nil {
		return nil, err
	}
	blobSource := blob.NewDatasetSource(objects)
	loadSource := newLoadSource(cfg, blobSource, logger)

	db, runs, err := newLoadRunRepository(cfg)
	if err != nil {
		return nil, err
	}

	var memo *cache.Store
	if cfg.CacheEnabled {
		memo = cache.NewStore(cfg.CacheTTL)
	}

	store := viewstate.NewStore()
	dashboard := usecase.NewDashboardService(store, memo, cfg.WarmWorkers, logger)
	loader := usecase.NewLoaderService(loadSource, store, runs, idgen.NewRandomGenerator("run_"), logger)
	if memo != nil {
		loader.OnPublish(func(ctx context.Context, view viewstate.View) {
			if err := dashboard.Warm(ctx, view); err != nil {
				logger.WarnContext(ctx, "dashboard warmup failed", "version", view.Version, "error", err)
			}
		})
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Dashboard:  dashboard,
		Routes:     usecase.NewRouteService(store),
		LoadRuns:   usecase.NewLoadRunService(runs),
		Loader:     loader,
		Data:       usecase.NewDataService(blobSource),
		DataAPIKey: cfg.DataAPIKey,
		Logger:     logger,
	})
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		DataLimiter:        httpapi.NewIPRateLimiter(cfg.DataRateLimitRequests, cfg.DataRateLimitWindow),
	})

	return &App{
		Server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		Loader: loader,
		store:  store,
		db:     db,
	}, nil
}

// Close stops publishing and releases the database. Call it after the
// server has shut down.
func (a *App) Close() error {
	a.store.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newObjectStore(cfg config.Config) (blob.ObjectStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendLocal:
		return blob.NewLocalStore(cfg.DataLocalDir), nil
	default:
		store, err := blob.NewAzureStore(cfg.AzureConnectionString, cfg.DataContainer)
		if err != nil {
			return nil, errors.Wrap(err, "create azure blob store")
		}
		return store, nil
	}
}

func newLoadSource(cfg config.Config, blobSource dataset.Source, logger *logging.Logger) dataset.Source {
	if cfg.DataSource != config.DataSourceAPI {
		return blobSource
	}

	httpClient := &http.Client{
		Timeout:   cfg.DataAPITimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return dataapi.NewClient(httpClient, cfg.DataAPIBaseURL, cfg.DataAPIClientKey, cfg.DataAPITimeout, resilience.CircuitBreakerConfig{
		Enabled:          cfg.DataAPICircuitEnabled,
		FailureThreshold: cfg.DataAPICircuitFailureCount,
		OpenTimeout:      cfg.DataAPICircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.DataAPICircuitHalfOpenMaxReq,
	}, logger)
}

func newLoadRunRepository(cfg config.Config) (*sqlx.DB, loadrun.Repository, error) {
	if cfg.LoadRunStore != config.LoadRunStorePostgres {
		return nil, memory.NewLoadRunRepository(memoryLoadRunCapacity), nil
	}

	db, err := openPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, postgres.NewLoadRunRepository(db), nil
}

package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/blob"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/dataapi"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/afl-dashboard/internal/platform/cache"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
	"github.com/riskibarqy/afl-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
	"github.com/riskibarqy/afl-dashboard/internal/viewstate"
)

const apiTimeout = 30 * time.Second

var outputJSON = sonic.Config{SortMapKeys: true}.Froze()

type rootOptions struct {
	profilePath string
	flags       Profile
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "aflctl",
		Short:         "Load AFL datasets and print dashboard views",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.profilePath, "profile", defaultProfilePath(), "YAML profile with data_dir, api_url, api_key and audit_db")
	pf.StringVar(&opts.flags.DataDir, "data-dir", "", "Directory holding the dataset CSV files")
	pf.StringVar(&opts.flags.APIURL, "api-url", "", "Base URL of a data endpoint; used instead of --data-dir")
	pf.StringVar(&opts.flags.APIKey, "api-key", os.Getenv("DATA_API_CLIENT_KEY"), "Key sent as x-data-key")
	pf.StringVar(&opts.flags.AuditDB, "audit-db", "", "SQLite file that records every load")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newLoadCmd(opts),
		newTeamCmd(opts),
		newPlayerCmd(opts),
		newRouteCmd(opts),
		newRunsCmd(opts),
		newParseCmd(),
		newSchemaCmd(),
	)
	return root
}

func defaultProfilePath() string {
	if v := strings.TrimSpace(os.Getenv("AFLCTL_PROFILE")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.aflctl.yaml"
}

func (o *rootOptions) profile() (Profile, error) {
	fromFile, err := loadProfile(o.profilePath)
	if err != nil {
		return Profile{}, err
	}
	return o.flags.merge(fromFile), nil
}

func (o *rootOptions) logger() *logging.Logger {
	if !o.verbose {
		return logging.NewNop()
	}
	return logging.NewConsole(logging.LevelDebug, os.Stderr)
}

// runtime is the in-process equivalent of the service wiring.
type runtime struct {
	store     *viewstate.Store
	loader    *usecase.LoaderService
	dashboard *usecase.DashboardService
	routes    *usecase.RouteService
	runs      loadrun.Repository
	db        *sqlx.DB
}

func (o *rootOptions) newRuntime(ctx context.Context) (*runtime, error) {
	p, err := o.profile()
	if err != nil {
		return nil, err
	}
	logger := o.logger()

	var source dataset.Source
	switch {
	case p.APIURL != "":
		source = dataapi.NewClient(nil, p.APIURL, p.APIKey, apiTimeout, resilience.CircuitBreakerConfig{}, logger)
	case p.DataDir != "":
		source = blob.NewDatasetSource(blob.NewLocalStore(p.DataDir))
	default:
		return nil, errors.New("one of --data-dir or --api-url is required")
	}

	rt := &runtime{store: viewstate.NewStore()}
	if p.AuditDB != "" {
		db, err := sqlite.Open(ctx, p.AuditDB)
		if err != nil {
			return nil, errors.Wrap(err, "open audit db")
		}
		rt.db = db
		rt.runs = sqlite.NewLoadRunRepository(db)
	}

	rt.loader = usecase.NewLoaderService(source, rt.store, rt.runs, nil, logger)
	rt.dashboard = usecase.NewDashboardService(rt.store, cache.NewStore(0), 1, logger)
	rt.routes = usecase.NewRouteService(rt.store)
	return rt, nil
}

func (rt *runtime) load(ctx context.Context) (viewstate.View, error) {
	return rt.loader.LoadAll(ctx)
}

func (rt *runtime) close() {
	rt.store.Close()
	if rt.db != nil {
		_ = rt.db.Close()
	}
}

// withLoaded builds a runtime, loads every dataset and runs fn.
func (o *rootOptions) withLoaded(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := o.newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.load(ctx); err != nil {
		return errors.Wrap(err, "load datasets")
	}
	return fn(ctx, rt)
}

func printJSON(w io.Writer, v any) error {
	out, err := outputJSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

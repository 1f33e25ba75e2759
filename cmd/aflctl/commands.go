package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
	"github.com/riskibarqy/afl-dashboard/internal/domain/loadrun"
	"github.com/riskibarqy/afl-dashboard/internal/infrastructure/blob"
	"github.com/riskibarqy/afl-dashboard/internal/normalize"
	"github.com/riskibarqy/afl-dashboard/internal/usecase"
)

type loadSummary struct {
	Version uint64               `json:"version"`
	Rows    map[dataset.Kind]int `json:"rows"`
	Dropped map[dataset.Kind]int `json:"dropped"`
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load every dataset and print row and drop counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withLoaded(cmd, func(_ context.Context, rt *runtime) error {
				view := rt.store.Current()
				return printJSON(cmd.OutOrStdout(), loadSummary{
					Version: view.Version,
					Rows:    view.Snapshot.Counts(),
					Dropped: view.Dropped,
				})
			})
		},
	}
}

func newTeamCmd(opts *rootOptions) *cobra.Command {
	var (
		season  int
		compare string
	)
	cmd := &cobra.Command{
		Use:   "team <team>",
		Short: "Print the dashboard of a team (id, legacy code or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLoaded(cmd, func(ctx context.Context, rt *runtime) error {
				dashboard, err := rt.dashboard.TeamDashboard(ctx, args[0], season, compare)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dashboard)
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season; defaults to the latest with data")
	cmd.Flags().StringVar(&compare, "compare", "", "Team to compare against")
	return cmd
}

func newPlayerCmd(opts *rootOptions) *cobra.Command {
	var q usecase.CareerQuery
	cmd := &cobra.Command{
		Use:   "player <player-id>",
		Short: "Print the career view of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.PlayerID = args[0]
			return opts.withLoaded(cmd, func(ctx context.Context, rt *runtime) error {
				career, err := rt.dashboard.PlayerCareer(ctx, q)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), career)
			})
		},
	}
	cmd.Flags().StringVar(&q.TeamID, "team", "", "Team; inferred from the roster when empty")
	cmd.Flags().StringVar(&q.ComparePlayerID, "compare", "", "Player to compare against")
	cmd.Flags().StringVar(&q.Outlook, "outlook", "neutral", "neutral, optimistic or pessimistic")
	cmd.Flags().IntVar(&q.Season, "season", 0, "Season")
	return cmd
}

func newRouteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "route <url>",
		Short: "Resolve a dashboard URL to its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withLoaded(cmd, func(ctx context.Context, rt *runtime) error {
				resolved, err := rt.routes.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resolved)
			})
		},
	}
}

func newRunsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List loads recorded in the audit database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.newRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()
			if rt.runs == nil {
				return errors.New("--audit-db is required")
			}

			runs, err := usecase.NewLoadRunService(rt.runs).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []loadrun.Run{}
			}
			return printJSON(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", loadrun.DefaultListLimit, "Number of runs")
	return cmd
}

type parseFailure struct {
	Message string               `json:"message"`
	Errors  []dataset.ParseError `json:"errors"`
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.csv>",
		Short: "Parse a CSV the way the data endpoint does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()

			rows, err := blob.ParseCSV(f)
			var parseErrs dataset.ParseErrors
			if errors.As(err, &parseErrs) {
				if perr := printJSON(cmd.OutOrStdout(), parseFailure{Message: "CSV parse error", Errors: parseErrs}); perr != nil {
					return perr
				}
				return errors.Newf("%d parse errors", len(parseErrs))
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
}

type schemaField struct {
	Name     string   `json:"name"`
	Keys     []string `json:"keys"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [dataset]",
		Short: "Print the column schema of one dataset, or list the datasets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				names := make([]string, 0, len(dataset.Kinds))
				for _, kind := range dataset.Kinds {
					names = append(names, string(kind))
				}
				return printJSON(cmd.OutOrStdout(), names)
			}

			kind := dataset.Kind(strings.TrimSuffix(strings.TrimSpace(args[0]), ".csv"))
			schema, ok := normalize.SchemaFor(kind)
			if !ok {
				return fmt.Errorf("unknown dataset %q", args[0])
			}
			fields := make([]schemaField, 0, len(schema.Fields))
			for _, f := range schema.Fields {
				fields = append(fields, schemaField{
					Name:     f.Name,
					Keys:     f.Keys,
					Type:     f.Type.String(),
					Required: f.Required,
				})
			}
			return printJSON(cmd.OutOrStdout(), fields)
		},
	}
}

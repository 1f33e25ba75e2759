// Command migration applies the load run schema to Postgres.
//
// Usage:
//
//	migration up
//	migration down 1
//	migration version
//	migration force 1791964800
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/afl-dashboard/internal/app"
	"github.com/riskibarqy/afl-dashboard/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

type migrateOptions struct {
	dbURL          string
	dir            string
	preparedBinary bool
}

func main() {
	_ = godotenv.Load(".env")

	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("LOG_LEVEL"))).Named("migration")
	err := newRootCmd(logger).Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *logging.Logger) *cobra.Command {
	opts := &migrateOptions{}
	root := &cobra.Command{
		Use:          "migration",
		Short:        "Manage the AFL dashboard database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dbURL, "db-url", os.Getenv("DB_URL"), "Postgres URL (DB_URL)")
	root.PersistentFlags().StringVar(&opts.dir, "dir", os.Getenv("MIGRATIONS_DIR"), "migrations directory (MIGRATIONS_DIR)")
	root.PersistentFlags().BoolVar(&opts.preparedBinary, "disable-prepared-binary", envBool("DB_DISABLE_PREPARED_BINARY", true),
		"append disable_prepared_binary_result=yes to the URL (DB_DISABLE_PREPARED_BINARY)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.run(logger, func(m *migrate.Migrate) error {
					if err := ignoreNoChange(m.Up(), logger); err != nil {
						return errors.Wrap(err, "apply migrations")
					}
					logger.Info("migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				return opts.run(logger, func(m *migrate.Migrate) error {
					if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
						return errors.Wrapf(err, "roll back %d steps", steps)
					}
					logger.Info("migrations rolled back", "steps", steps)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.run(logger, func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(cmd.OutOrStdout(), "version: none\ndirty: false")
						return nil
					}
					if err != nil {
						return errors.Wrap(err, "read version")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := parseVersion(args[0])
				if err != nil {
					return err
				}
				return opts.run(logger, func(m *migrate.Migrate) error {
					if err := m.Force(version); err != nil {
						return errors.Wrapf(err, "force version %d", version)
					}
					logger.Info("forced version", "version", version)
					return nil
				})
			},
		},
	)
	return root
}

func (o *migrateOptions) run(logger *logging.Logger, fn func(*migrate.Migrate) error) error {
	dbURL := strings.TrimSpace(o.dbURL)
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}
	dir, err := resolveMigrationsDir(o.dir)
	if err != nil {
		return err
	}

	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, app.NormalizeDBURL(dbURL, o.preparedBinary))
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	logger.Debug("migrator ready", "source", source)
	return fn(m)
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || steps <= 0 {
		return 0, errors.Newf("down steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	version, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || version < 0 {
		return 0, errors.Newf("version must be a non-negative integer, got %q", raw)
	}
	return version, nil
}

// resolveMigrationsDir returns the first existing directory among explicit
// and the default locations.
func resolveMigrationsDir(explicit string) (string, error) {
	candidates := append([]string{strings.TrimSpace(explicit)}, defaultMigrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.Newf("migration directory not found (checked %s)", strings.Join(candidates[1:], ", "))
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

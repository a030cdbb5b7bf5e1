package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/lshigami/Kindred/config"
	"github.com/lshigami/Kindred/database"
	"github.com/lshigami/Kindred/internal/migration"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var errEnvInvalid = errors.New("environment has problems")

// openDB is replaced in tests.
var openDB = func(cfg *config.Config) (*gorm.DB, error) {
	return database.NewDatabase(cfg)
}

var loadConfig = config.NewConfig

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kindred-migrate",
		Short:         "Database migrations and environment checks for Kindred",
		SilenceUsage:  true,
	}
	root.AddCommand(newUpCmd(), newStatusCmd(), newCheckEnvCmd())
	return root
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations and print row counts around each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			results, err := runner.Up(cmd.Context(), func(res migration.Result) {
				printResult(out, res)
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "Nothing to apply, schema is up to date.")
				return nil
			}
			fmt.Fprintf(out, "Applied %d migration(s).\n", len(results))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := newRunner()
			if err != nil {
				return err
			}
			states, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
			for _, st := range states {
				applied := "pending"
				if st.AppliedAt != nil {
					applied = st.AppliedAt.Format("2006-01-02 15:04:05 MST")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", st.Version, st.Name, applied)
			}
			return w.Flush()
		},
	}
}

func newCheckEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Validate environment variables for the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			problems := cfg.Validate()
			if len(problems) == 0 {
				fmt.Fprintln(out, "Environment OK.")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(out, "  ✗ %s\n", p)
			}
			return fmt.Errorf("%w: %d found", errEnvInvalid, len(problems))
		},
	}
}

func newRunner() (*migration.Runner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	migrations, err := migration.Embedded()
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(db, migrations, migration.TrackedTables), nil
}

func printResult(out io.Writer, res migration.Result) {
	fmt.Fprintf(out, "== %s_%s (%s)\n", res.Version, res.Name, res.Duration.Round(1e6))
	tables := make([]string, 0, len(res.After))
	for t := range res.After {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  TABLE\tBEFORE\tAFTER")
	for _, t := range tables {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", t, countLabel(res.Before[t]), countLabel(res.After[t]))
	}
	_ = w.Flush()
}

func countLabel(n int64) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

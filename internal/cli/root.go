package cli

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/railops/rake-planner/internal/config"
	"github.com/railops/rake-planner/internal/db"
)

var databaseURL string

// NewRootCommand builds the root "plan" command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plan",
		Short: "Offline CLI for the rake formation planner",
		Long: `plan runs and inspects rake formation jobs directly against the
database, without going through the HTTP API or its job queue.

Examples:
  plan run --mode greedy
  plan status <job-id>
  plan list
  plan commit <plan-id>`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "",
		"Postgres connection string (defaults to DATABASE_URL)")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newCommitCommand())

	return rootCmd
}

// openQueries opens a direct database connection for one CLI invocation.
func openQueries() (*db.Queries, *sql.DB, error) {
	url := databaseURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		url = cfg.DatabaseURL
	}

	conn, err := sql.Open("postgres", url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	return db.New(conn), conn, nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/railops/rake-planner/internal/api"
	"github.com/railops/rake-planner/internal/planner"
)

func newRunCommand() *cobra.Command {
	var (
		mode                  string
		allowMultiDestination bool
		minRakeSize           float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a planning job synchronously against the current reference data",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, conn, err := openQueries()
			if err != nil {
				return err
			}
			defer conn.Close()

			cfg := planner.DefaultConfig()
			cfg.Mode = mode
			cfg.AllowMultiDestination = allowMultiDestination
			if minRakeSize > 0 {
				cfg.MinRakeSize = decimal.NewFromFloat(minRakeSize)
			}

			ctx := context.Background()
			jobID := uuid.New().String()
			if err := queries.CreatePlanningJob(ctx, jobID, cfg.Mode, []byte(`{}`)); err != nil {
				return fmt.Errorf("create job: %w", err)
			}

			snap, err := api.LoadSnapshot(ctx, queries)
			if err != nil {
				_ = queries.MarkFailed(ctx, jobID, err.Error())
				return fmt.Errorf("load snapshot: %w", err)
			}

			runner := planner.NewRunner(queries, planner.NewRegistry())
			planID := uuid.New().String()

			result, err := runner.Run(ctx, jobID, snap, cfg, func(res planner.Result) error {
				if err := api.PersistResult(ctx, queries, planID, jobID, res); err != nil {
					return err
				}
				return queries.SetPlanID(ctx, jobID, planID)
			})
			if err != nil {
				return fmt.Errorf("run job: %w", err)
			}

			fmt.Printf("job %s completed: plan %s (%s), %d/%d orders fulfilled, total cost %s\n",
				jobID, planID, result.Algorithm, result.OrdersFulfilled, result.TotalOrders, result.TotalCost.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "greedy", "planning mode: greedy, optimal, or hybrid")
	cmd.Flags().BoolVar(&allowMultiDestination, "allow-multi-destination", false, "allow a single rake to serve multiple destinations")
	cmd.Flags().Float64Var(&minRakeSize, "min-rake-size", 0, "minimum tonnage to dispatch a rake (0 keeps the default)")

	return cmd
}

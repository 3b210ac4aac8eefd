package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railops/rake-planner/internal/api"
)

func newCommitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commit <plan-id>",
		Short: "Commit a plan, flipping its rakes and orders to assigned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, conn, err := openQueries()
			if err != nil {
				return err
			}
			defer conn.Close()

			anomalies, err := api.CommitPlan(context.Background(), queries, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("plan %s committed\n", args[0])
			for _, a := range anomalies {
				fmt.Printf("  anomaly: %s\n", a)
			}
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent planning jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, conn, err := openQueries()
			if err != nil {
				return err
			}
			defer conn.Close()

			jobs, err := queries.ListPlanningJobs(context.Background(), limit)
			if err != nil {
				return err
			}

			for _, job := range jobs {
				planID := "-"
				if job.PlanID.Valid {
					planID = job.PlanID.String
				}
				fmt.Printf("%s  %-8s %-10s %3d%%  plan=%s\n", job.ID, job.Mode, job.Status, job.ProgressPct, planID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of jobs to list")
	return cmd
}

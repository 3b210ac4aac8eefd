package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a planning job's current status and log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, conn, err := openQueries()
			if err != nil {
				return err
			}
			defer conn.Close()

			job, err := queries.GetPlanningJob(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("job %s\n  mode:     %s\n  status:   %s\n  progress: %d%%\n", job.ID, job.Mode, job.Status, job.ProgressPct)
			if job.PlanID.Valid {
				fmt.Printf("  plan:     %s\n", job.PlanID.String)
			}
			if job.ErrorMsg.Valid {
				fmt.Printf("  error:    %s\n", job.ErrorMsg.String)
			}
			if len(job.Logs) > 0 {
				fmt.Println("  log:")
				for _, line := range job.Logs {
					fmt.Printf("    %s\n", line)
				}
			}
			return nil
		},
	}
}

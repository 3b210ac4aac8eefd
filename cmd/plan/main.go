// Command plan is an offline CLI for running and inspecting rake formation
// plans directly against the database, bypassing the HTTP API and its job
// queue. It is meant for batch/cron use and local debugging.
package main

import (
	"fmt"
	"os"

	"github.com/railops/rake-planner/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

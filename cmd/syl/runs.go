package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/syllabus/internal/client"
)

var (
	runsSource string
	runsClean  string
	runsSort   string
	runsLimit  int
	runsOffset int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List ingestion runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ListRunsRequest{
			Source: runsSource,
			Sort:   runsSort,
			Limit:  runsLimit,
			Offset: runsOffset,
		}
		switch runsClean {
		case "":
		case "true", "false":
			b := runsClean == "true"
			req.Clean = &b
		default:
			return fmt.Errorf("--clean must be true or false, got %q", runsClean)
		}

		resp, err := sylClient.ListRuns(cmd.Context(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		printRunListTable(resp.Runs, resp.Total)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run's summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := sylClient.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(run)
			return nil
		}
		printRunSummary(run)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and all its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sylClient.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("deleted %s\n", args[0])
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsSource, "source", "", "filter by document source")
	runsCmd.Flags().StringVar(&runsClean, "clean", "", "filter by clean flag (true or false)")
	runsCmd.Flags().StringVar(&runsSort, "sort", "", "sort field, prefix with - for descending (created_at, source, node_count, error_count)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "maximum number of runs to return")
	runsCmd.Flags().IntVar(&runsOffset, "offset", 0, "number of runs to skip")
}

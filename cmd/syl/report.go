package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/syllabus/internal/ui"
)

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Show a run's validation diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sylClient.GetDiagnostics(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}
		if resp.Total == 0 {
			fmt.Println(ui.RenderAccent("clean") + ": no findings")
			return nil
		}
		printDiagnostics(resp.Diagnostics)
		return nil
	},
}

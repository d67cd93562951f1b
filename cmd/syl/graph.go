package main

import (
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <run-id>",
	Short: "Show a run's content graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := sylClient.GetGraph(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(g)
			return nil
		}
		printGraphTree(g)
		return nil
	},
}

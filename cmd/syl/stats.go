package main

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics across all runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := sylClient.GetStats(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(stats)
			return nil
		}
		printStats(stats)
		return nil
	},
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	replanBudget   float64
	replanPlanFile string
)

var planCmd = &cobra.Command{
	Use:   "plan <run-id>",
	Short: "Show a run's study plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := sylClient.GetPlan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(p)
			return nil
		}
		printPlan(p)
		return nil
	},
}

var replanCmd = &cobra.Command{
	Use:   "replan <run-id>",
	Short: "Recompute a run's study plan with a new budget or overrides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolvePlanOptions(replanBudget, replanPlanFile)
		if err != nil {
			return err
		}
		if opts == nil {
			return fmt.Errorf("either --budget or --plan-file is required")
		}

		p, err := sylClient.Replan(cmd.Context(), args[0], *opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(p)
			return nil
		}
		printPlan(p)
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Remove a run's study plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sylClient.DeletePlan(cmd.Context(), args[0]); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("plan removed for %s\n", args[0])
		}
		return nil
	},
}

func init() {
	replanCmd.Flags().Float64Var(&replanBudget, "budget", 0, "study budget")
	replanCmd.Flags().StringVar(&replanPlanFile, "plan-file", "", "TOML file with budget and effort/priority overrides")

	planCmd.AddCommand(planDeleteCmd)
	rootCmd.AddCommand(replanCmd)
}

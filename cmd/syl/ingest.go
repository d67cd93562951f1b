package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/syllabus/internal/client"
	"github.com/groblegark/syllabus/internal/document"
	"github.com/groblegark/syllabus/internal/plan"
)

var (
	ingestSource   string
	ingestBudget   float64
	ingestPlanFile string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Submit an outline document for ingestion and validation",
	Long: `Parse a markdown-style outline into structural events and submit it
as a new run. Lines starting with "# " open a chapter, "## " open a section,
and "- " add a topic. All other lines are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		evts, err := parseOutline(f)
		if err != nil {
			return err
		}
		if len(evts) == 0 {
			return fmt.Errorf("%s contains no outline lines", path)
		}

		source := ingestSource
		if source == "" {
			source = filepath.Base(path)
		}

		req := &client.CreateRunRequest{
			Source:    source,
			CreatedBy: actor,
			Events:    evts,
		}

		opts, err := resolvePlanOptions(ingestBudget, ingestPlanFile)
		if err != nil {
			return err
		}
		req.Plan = opts

		resp, err := sylClient.CreateRun(cmd.Context(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}

		printRunSummary(resp.Run)
		if len(resp.Diagnostics) > 0 {
			fmt.Println()
			printDiagnostics(resp.Diagnostics)
		}
		if resp.Plan != nil {
			fmt.Println()
			printPlan(resp.Plan)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "source name recorded on the run (default: file name)")
	ingestCmd.Flags().Float64Var(&ingestBudget, "budget", 0, "study budget; when positive a plan is computed")
	ingestCmd.Flags().StringVar(&ingestPlanFile, "plan-file", "", "TOML file with budget and effort/priority overrides")
}

// parseOutline converts a markdown-style outline into structural events.
// "## " must be checked before "# " since the latter is its prefix.
func parseOutline(r io.Reader) ([]document.Event, error) {
	var evts []document.Event
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "## "):
			evts = append(evts, document.Event{Kind: document.SectionStart, Title: strings.TrimSpace(line[3:])})
		case strings.HasPrefix(line, "# "):
			evts = append(evts, document.Event{Kind: document.ChapterStart, Title: strings.TrimSpace(line[2:])})
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			evts = append(evts, document.Event{Kind: document.TopicItem, Title: strings.TrimSpace(line[2:])})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return evts, nil
}

// resolvePlanOptions merges the --budget flag and the --plan-file file into
// planner options. Returns nil when neither is given.
func resolvePlanOptions(budget float64, planFile string) (*plan.Options, error) {
	var opts *plan.Options

	if planFile != "" {
		loaded, err := loadPlanFile(planFile)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	if budget > 0 {
		if opts == nil {
			opts = &plan.Options{}
		}
		// An explicit flag beats the file's budget.
		opts.Budget = budget
	}

	return opts, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/groblegark/syllabus/internal/client"
	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printRunSummary(run *model.Run) {
	fmt.Printf("Run:       %s\n", ui.RenderAccent(run.ID))
	if run.Source != "" {
		fmt.Printf("Source:    %s\n", run.Source)
	}
	if run.CreatedBy != "" {
		fmt.Printf("By:        %s\n", run.CreatedBy)
	}
	if !run.CreatedAt.IsZero() {
		fmt.Printf("Created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Nodes:     %d\n", run.NodeCount)
	fmt.Printf("Edges:     %d\n", run.EdgeCount)

	status := ui.RenderAccent("clean")
	if !run.Clean {
		status = ui.RenderError(fmt.Sprintf("%d errors", run.ErrorCount))
	}
	if run.WarningCount > 0 {
		status += ", " + ui.RenderWarning(fmt.Sprintf("%d warnings", run.WarningCount))
	}
	fmt.Printf("Status:    %s\n", status)
	if run.Planned {
		fmt.Printf("Planned:   yes\n")
	}
}

func printRunListTable(runs []*model.Run, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tNODES\tEDGES\tERRORS\tWARNINGS\tCLEAN\tPLANNED\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%t\t%t\t%s\n",
			r.ID,
			r.Source,
			r.NodeCount,
			r.EdgeCount,
			r.ErrorCount,
			r.WarningCount,
			r.Clean,
			r.Planned,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
	fmt.Printf("\n%d total\n", total)
}

func printDiagnostics(diags []model.Diagnostic) {
	for _, d := range diags {
		sev := string(d.Severity)
		switch d.Severity {
		case model.SeverityError:
			sev = ui.RenderError(sev)
		case model.SeverityWarning:
			sev = ui.RenderWarning(sev)
		}
		nodes := ""
		if len(d.NodeIDs) > 0 {
			nodes = " " + ui.RenderMuted("["+strings.Join(d.NodeIDs, " ")+"]")
		}
		fmt.Printf("%s %s: %s%s\n", sev, d.Kind, d.Message, nodes)
	}
}

func printPlan(p *model.StudyPlan) {
	fmt.Printf("Plan (budget %.4g, total cost %.4g):\n", p.Budget, p.TotalCost)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNODE\tCOST\tCUMULATIVE")
	for i, e := range p.Entries {
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%.4g\n", i+1, e.NodeID, e.Cost, e.Cumulative)
	}
	w.Flush()
}

// printGraphTree prints the containment tree with reference edges below it.
func printGraphTree(g *client.GraphResponse) {
	for _, n := range g.Nodes {
		indent := strings.Repeat("  ", int(n.Depth))
		label := fmt.Sprintf("%d. %s", n.Ordinal, n.Title)
		if n.Depth == model.DepthChapter {
			label = ui.RenderAccent(label)
		}
		fmt.Printf("%s%s %s\n", indent, label, ui.RenderMuted(n.ID))
	}

	if len(g.Edges) == 0 {
		return
	}
	fmt.Println()
	for _, e := range g.Edges {
		if e.Unresolved {
			fmt.Printf("%s %s -> %s\n", e.Kind, e.Source, ui.RenderError(e.RawRef+" (unresolved)"))
			continue
		}
		fmt.Printf("%s %s -> %s\n", e.Kind, e.Source, e.Target)
	}
}

func printStats(stats *model.GraphStats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Runs\t%d\n", stats.TotalRuns)
	fmt.Fprintf(w, "Clean runs\t%d\n", stats.CleanRuns)
	fmt.Fprintf(w, "Nodes\t%d\n", stats.TotalNodes)
	fmt.Fprintf(w, "Edges\t%d\n", stats.TotalEdges)
	fmt.Fprintf(w, "Errors\t%d\n", stats.TotalErrors)
	fmt.Fprintf(w, "Warnings\t%d\n", stats.TotalWarnings)
	fmt.Fprintf(w, "Plan entries\t%d\n", stats.TotalPlanEntries)
	w.Flush()
}

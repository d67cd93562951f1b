// Package engine wires the ingestion pipeline: build the containment tree,
// resolve declared references, validate the graph, and (when the graph is
// clean and a budget was given) compute a study plan.
//
// A single run is synchronous and owns its graph exclusively; independent
// documents can run in parallel with no shared state.
package engine

import (
	"fmt"

	"github.com/groblegark/syllabus/internal/check"
	"github.com/groblegark/syllabus/internal/document"
	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/plan"
	"github.com/groblegark/syllabus/internal/report"
	"github.com/groblegark/syllabus/internal/resolve"
)

// Options configures a pipeline run.
type Options struct {
	// Plan, when non-nil, requests a study plan after validation. The plan
	// is only computed when the report is clean.
	Plan *plan.Options
}

// Result is the complete output of one run. Plan is nil when no budget was
// requested or the graph was not clean.
type Result struct {
	Graph  *model.Graph     `json:"graph"`
	Report *model.Report    `json:"report"`
	Plan   *model.StudyPlan `json:"plan,omitempty"`
}

// Run executes the full pipeline over an event sequence.
//
// Builder and resolver failures abort immediately with a stage-wrapped error
// and no partial graph. Validator findings are collected into the report,
// never thrown. The planner only runs against a clean report; a not-clean
// graph yields a Result with a nil Plan rather than an error.
func Run(events []document.Event, opts Options) (*Result, error) {
	g, err := document.Build(events)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	if err := resolve.Resolve(g); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	rep := report.Build(check.Run(g))

	res := &Result{Graph: g, Report: rep}

	if opts.Plan != nil && rep.Clean {
		p, err := plan.Compute(g, *opts.Plan)
		if err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
		res.Plan = p
	}

	return res, nil
}

// Replan computes a fresh study plan against an already-validated graph,
// e.g. with a different budget or overrides. The caller must hold a clean
// graph; the planner's own guards reject cyclic or dangling input.
func Replan(g *model.Graph, opts plan.Options) (*model.StudyPlan, error) {
	p, err := plan.Compute(g, opts)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return p, nil
}

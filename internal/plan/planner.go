// Package plan computes budget-constrained study plans over a validated
// content graph: a prerequisite-respecting traversal order that never spends
// more than the caller's budget.
package plan

import (
	"fmt"

	"github.com/groblegark/syllabus/internal/model"
)

// DefaultCost is the per-node effort used when no override is given.
const DefaultCost = 1.0

// Options configures a planning pass.
type Options struct {
	// Budget is the total effort available, e.g. days. Required, positive.
	Budget float64 `json:"budget"`
	// EffortOverrides maps node id to its cost; absent nodes cost DefaultCost.
	EffortOverrides map[string]float64 `json:"effort_overrides,omitempty"`
	// PriorityOverrides maps node id to a weight; higher is scheduled
	// earlier when multiple nodes are eligible. Default 0.
	PriorityOverrides map[string]float64 `json:"priority_overrides,omitempty"`
}

// PlanningErrorKind identifies why a planning pass failed outright.
type PlanningErrorKind string

const (
	// CyclicInput means the prerequisite sub-graph contains a cycle; the
	// caller bypassed the clean-graph precondition.
	CyclicInput PlanningErrorKind = "cyclic_input"
	// DanglingInput means a prerequisite edge names a node the graph does
	// not contain.
	DanglingInput PlanningErrorKind = "dangling_input"
	// InvalidBudget means the budget was missing, zero, or negative.
	InvalidBudget PlanningErrorKind = "invalid_budget"
	// InvalidCost means an effort override was zero or negative.
	InvalidCost PlanningErrorKind = "invalid_cost"
)

// PlanningError is a fatal planner failure; no partial plan is produced.
type PlanningError struct {
	Kind    PlanningErrorKind
	Message string
}

// Error formats the planning error with its kind.
func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning failed (%s): %s", e.Kind, e.Message)
}

// Compute returns a study plan for the graph under the given options.
//
// The plan is a topological order over the prerequisite sub-graph: if A is a
// prerequisite of B, A precedes B. Among simultaneously eligible nodes the
// highest priority wins, ties broken by document order, so two runs over
// identical input produce identical plans. A node whose cost does not fit
// the remaining budget is passed over; cheaper eligible nodes may still be
// scheduled, but never one with unscheduled prerequisites.
func Compute(g *model.Graph, opts Options) (*model.StudyPlan, error) {
	if opts.Budget <= 0 {
		return nil, &PlanningError{
			Kind:    InvalidBudget,
			Message: fmt.Sprintf("budget must be positive, got %v", opts.Budget),
		}
	}
	for id, c := range opts.EffortOverrides {
		if c <= 0 {
			return nil, &PlanningError{
				Kind:    InvalidCost,
				Message: fmt.Sprintf("effort override for %s must be positive, got %v", id, c),
			}
		}
	}

	fwd := g.PrereqForward()
	for src, targets := range fwd {
		if g.Node(src) == nil {
			return nil, &PlanningError{
				Kind:    DanglingInput,
				Message: fmt.Sprintf("prerequisite source %s is not in the graph", src),
			}
		}
		for _, tgt := range targets {
			if g.Node(tgt) == nil {
				return nil, &PlanningError{
					Kind:    DanglingInput,
					Message: fmt.Sprintf("prerequisite of %s names unknown node %s", src, tgt),
				}
			}
		}
	}
	if cyclic(g, fwd) {
		return nil, &PlanningError{
			Kind:    CyclicInput,
			Message: "prerequisite sub-graph contains a cycle",
		}
	}

	cost := func(id string) float64 {
		if c, ok := opts.EffortOverrides[id]; ok {
			return c
		}
		return DefaultCost
	}
	priority := func(id string) float64 {
		return opts.PriorityOverrides[id]
	}

	// better is a total order over candidates: higher priority wins,
	// earlier document position breaks ties. Map iteration below has no
	// fixed order; this comparator is what makes the pick deterministic.
	better := func(id, cur string) bool {
		if cur == "" {
			return true
		}
		if pi, pc := priority(id), priority(cur); pi != pc {
			return pi > pc
		}
		return g.DocIndex(id) < g.DocIndex(cur)
	}

	rev := g.PrereqReverse()

	scheduled := make(map[string]bool, g.Len())
	// skipped nodes did not fit the budget; they stay unscheduled for the
	// rest of the pass.
	skipped := make(map[string]bool)

	plan := &model.StudyPlan{Budget: opts.Budget}
	remaining := opts.Budget

	for {
		best := ""
		for id := range g.Nodes {
			if scheduled[id] || skipped[id] {
				continue
			}
			if !eligible(id, fwd, scheduled) {
				continue
			}
			if better(id, best) {
				best = id
			}
		}
		if best == "" {
			break
		}
		if c := cost(best); c <= remaining {
			remaining -= c
			plan.TotalCost += c
			scheduled[best] = true
			plan.Entries = append(plan.Entries, model.PlanEntry{
				NodeID:     best,
				Cost:       c,
				Cumulative: plan.TotalCost,
			})
		} else {
			// A skipped node can never be scheduled this pass, so
			// neither can anything that requires it.
			skipWithDependents(best, rev, skipped)
		}
	}

	return plan, nil
}

// skipWithDependents marks the node and everything that transitively
// requires it as skipped.
func skipWithDependents(id string, rev map[string][]string, skipped map[string]bool) {
	if skipped[id] {
		return
	}
	skipped[id] = true
	for _, dep := range rev[id] {
		skipWithDependents(dep, rev, skipped)
	}
}

// eligible reports whether every prerequisite of the node is scheduled.
func eligible(id string, fwd map[string][]string, scheduled map[string]bool) bool {
	for _, req := range fwd[id] {
		if !scheduled[req] {
			return false
		}
	}
	return true
}

// cyclic reports whether the prerequisite sub-graph contains any cycle,
// using the same three-color traversal the validator runs. The planner
// guards independently so a caller bypassing validation still gets a
// deterministic failure instead of an undefined partial order.
func cyclic(g *model.Graph, fwd map[string][]string) bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, g.Len())

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, next := range fwd[id] {
			switch color[next] {
			case gray:
				return true
			case white:
				if dfs(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, id := range g.Order {
		if color[id] == white && dfs(id) {
			return true
		}
	}
	return false
}

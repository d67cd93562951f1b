// Package check validates the structural invariants of a content graph. It
// is a pure function from graph to diagnostics; it never mutates the graph
// and never stops at the first defect, so one pass reports everything.
package check

import (
	"fmt"
	"strings"

	"github.com/groblegark/syllabus/internal/model"
)

// Run performs all structural checks and returns every finding. The four
// checks are independent and all of them run even when earlier ones find
// issues.
func Run(g *model.Graph) []model.Diagnostic {
	var diags []model.Diagnostic
	diags = append(diags, checkDanglingEdges(g)...)
	diags = append(diags, checkOrphanNodes(g)...)
	diags = append(diags, checkPrereqCycles(g)...)
	diags = append(diags, checkNumbering(g)...)
	return diags
}

// checkDanglingEdges reports edges whose source or target is absent from the
// node mapping, including references the resolver could not resolve.
func checkDanglingEdges(g *model.Graph) []model.Diagnostic {
	var diags []model.Diagnostic
	for _, e := range g.Edges {
		if e.Unresolved {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError,
				Kind:     model.DiagDanglingReference,
				NodeIDs:  []string{e.Source},
				Message:  fmt.Sprintf("%s reference %q from %s matches no node", e.Kind, e.RawRef, e.Source),
			})
			continue
		}
		if g.Node(e.Source) == nil {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError,
				Kind:     model.DiagDanglingReference,
				NodeIDs:  []string{e.Source, e.Target},
				Message:  fmt.Sprintf("%s edge source %s does not exist", e.Kind, e.Source),
			})
		}
		if g.Node(e.Target) == nil {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError,
				Kind:     model.DiagDanglingReference,
				NodeIDs:  []string{e.Source, e.Target},
				Message:  fmt.Sprintf("%s edge target %s does not exist", e.Kind, e.Target),
			})
		}
	}
	return diags
}

// checkOrphanNodes reports non-root nodes unreachable from any chapter via
// containment. The builder cannot produce these; this is a consistency
// self-check on the tree.
func checkOrphanNodes(g *model.Graph) []model.Diagnostic {
	reached := make(map[string]bool, g.Len())
	var walk func(id string)
	walk = func(id string) {
		if reached[id] {
			return
		}
		reached[id] = true
		n := g.Node(id)
		if n == nil {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range g.Roots() {
		walk(root)
	}

	var diags []model.Diagnostic
	for _, id := range g.Order {
		if g.Nodes[id].IsRoot() || reached[id] {
			continue
		}
		diags = append(diags, model.Diagnostic{
			Severity: model.SeverityError,
			Kind:     model.DiagOrphanNode,
			NodeIDs:  []string{id},
			Message:  fmt.Sprintf("node %s is unreachable from any chapter", id),
		})
	}
	return diags
}

// Colors for the prerequisite cycle DFS.
const (
	white = 0 // unvisited
	gray  = 1 // in progress
	black = 2 // done
)

// checkPrereqCycles runs a three-color depth-first traversal over the
// prerequisite sub-graph. A back-edge to a gray node is a cycle; the
// diagnostic names the full cycle from the first repeated node back to
// itself. Each node and edge is visited at most once, so the check is linear
// and terminates even on malformed cyclic input.
func checkPrereqCycles(g *model.Graph) []model.Diagnostic {
	fwd := g.PrereqForward()
	color := make(map[string]int, g.Len())

	var diags []model.Diagnostic
	var path []string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		path = append(path, id)

		for _, next := range fwd[id] {
			switch color[next] {
			case gray:
				// Back-edge: slice the current path from the repeated node.
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), next)
				diags = append(diags, model.Diagnostic{
					Severity: model.SeverityError,
					Kind:     model.DiagPrerequisiteCycle,
					NodeIDs:  cycle,
					Message:  "prerequisite cycle: " + strings.Join(cycle, " -> "),
				})
			case white:
				dfs(next)
			}
		}

		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range g.Order {
		if color[id] == white {
			dfs(id)
		}
	}
	return diags
}

// checkNumbering reports parents whose sibling ordinals are not exactly
// 1..N. Gaps are warnings, not errors, since manual renumbering during edits
// is expected.
func checkNumbering(g *model.Graph) []model.Diagnostic {
	var diags []model.Diagnostic

	check := func(parentID, label string, children []string) {
		seen := make(map[int]bool, len(children))
		ok := true
		for _, cid := range children {
			c := g.Node(cid)
			if c == nil {
				continue
			}
			if c.Ordinal < 1 || c.Ordinal > len(children) || seen[c.Ordinal] {
				ok = false
			}
			seen[c.Ordinal] = true
		}
		if !ok {
			d := model.Diagnostic{
				Severity: model.SeverityWarning,
				Kind:     model.DiagNumberingGap,
				Message:  fmt.Sprintf("%s are not numbered 1..%d", label, len(children)),
			}
			if parentID != "" {
				d.NodeIDs = []string{parentID}
			}
			diags = append(diags, d)
		}
	}

	check("", "chapters", g.Roots())
	for _, id := range g.Order {
		if n := g.Node(id); len(n.Children) > 0 {
			check(id, "children of "+id, n.Children)
		}
	}
	return diags
}

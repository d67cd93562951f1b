// Package resolve extracts declared cross-references and prerequisite markers
// from node text and resolves them into edges over the graph.
package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/groblegark/syllabus/internal/model"
)

// linkPattern matches an explicit [[target]] link reference. The target is a
// node id or a title.
var linkPattern = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// prereqPattern matches a prerequisite marker, e.g. "requires: Strings, Big O".
// The list runs to the end of the line or a semicolon; references may be
// dotted node ids. Everything the node requires must be studied before the
// node itself.
var prereqPattern = regexp.MustCompile(`(?i)\brequires:\s*([^;\n]+)`)

// AmbiguousReferenceError is a fatal resolver error: a title reference
// matched more than one node, so the graph cannot be trusted until the
// caller disambiguates.
type AmbiguousReferenceError struct {
	NodeID     string
	Ref        string
	Candidates []string
}

// Error lists every candidate so the caller can pick one.
func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("ambiguous reference %q in %s: candidates %s",
		e.Ref, e.NodeID, strings.Join(e.Candidates, ", "))
}

// Resolve scans every node's text for link references and prerequisite
// markers and appends the resulting edges to the graph. Node titles and text
// are never mutated.
//
// Resolution order is exact id match first, then case-insensitive title
// match across the whole graph. A reference matching nothing produces an
// edge with Unresolved set rather than being dropped; the validator surfaces
// it as an error later.
func Resolve(g *model.Graph) error {
	titles := titleIndex(g)

	for _, id := range g.Order {
		n := g.Node(id)
		if n.Text == "" {
			continue
		}

		for _, m := range linkPattern.FindAllStringSubmatch(n.Text, -1) {
			edge, err := resolveRef(g, titles, id, model.EdgeCrossReference, m[1])
			if err != nil {
				return err
			}
			g.AddEdge(edge)
		}

		for _, m := range prereqPattern.FindAllStringSubmatch(n.Text, -1) {
			for _, ref := range splitRefs(m[1]) {
				edge, err := resolveRef(g, titles, id, model.EdgePrerequisite, ref)
				if err != nil {
					return err
				}
				g.AddEdge(edge)
			}
		}
	}

	return nil
}

// resolveRef resolves a single reference string into an edge from the node.
func resolveRef(g *model.Graph, titles map[string][]string, sourceID string, kind model.EdgeKind, ref string) (*model.Edge, error) {
	ref = strings.TrimSpace(ref)

	// Exact id match wins outright.
	if g.Node(ref) != nil {
		return &model.Edge{Kind: kind, Source: sourceID, Target: ref}, nil
	}

	// Case-insensitive title match; ambiguity is fatal.
	candidates := titles[strings.ToLower(ref)]
	switch len(candidates) {
	case 1:
		return &model.Edge{Kind: kind, Source: sourceID, Target: candidates[0]}, nil
	case 0:
		return &model.Edge{Kind: kind, Source: sourceID, Unresolved: true, RawRef: ref}, nil
	default:
		return nil, &AmbiguousReferenceError{NodeID: sourceID, Ref: ref, Candidates: candidates}
	}
}

// titleIndex maps lowercased titles to the ids of every node carrying them,
// in document order.
func titleIndex(g *model.Graph) map[string][]string {
	idx := make(map[string][]string, g.Len())
	for _, id := range g.Order {
		key := strings.ToLower(strings.TrimSpace(g.Node(id).Title))
		idx[key] = append(idx[key], id)
	}
	return idx
}

// splitRefs splits a comma-separated reference list, dropping empties. A
// trailing period is sentence punctuation, not part of the reference.
func splitRefs(s string) []string {
	var refs []string
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		p = strings.TrimSuffix(p, ".")
		p = strings.TrimSpace(p)
		if p != "" {
			refs = append(refs, p)
		}
	}
	return refs
}

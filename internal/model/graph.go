package model

import "fmt"

// Graph holds the full topic hierarchy plus all declared edges. Nodes keep
// their document order; once a graph has passed validation it is treated as
// immutable by every downstream reader.
type Graph struct {
	// Order lists node ids in document (insertion) order.
	Order []string `json:"order"`
	// Nodes maps node id to node. Ids are unique and non-empty.
	Nodes map[string]*Node `json:"nodes"`
	Edges []*Edge          `json:"edges"`
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddNode appends a node in document order. Duplicate or empty ids are
// rejected; the builder disambiguates before calling.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return fmt.Errorf("node id is empty")
	}
	if _, ok := g.Nodes[n.ID]; ok {
		return fmt.Errorf("duplicate node id %q", n.ID)
	}
	g.Nodes[n.ID] = n
	g.Order = append(g.Order, n.ID)
	return nil
}

// AddEdge appends a declared edge. Edges may reference ids that do not exist;
// the validator reports those rather than this method rejecting them.
func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.Nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Order)
}

// DocIndex returns the document-order index of a node id, or -1 if the id is
// not in the graph. Used for deterministic tie-breaking.
func (g *Graph) DocIndex(id string) int {
	for i, nid := range g.Order {
		if nid == id {
			return i
		}
	}
	return -1
}

// PrereqForward returns the forward adjacency of the prerequisite sub-graph:
// for each source node, the ordered list of targets it requires. Unresolved
// edges are excluded here; the validator surfaces them separately.
func (g *Graph) PrereqForward() map[string][]string {
	fwd := make(map[string][]string)
	for _, e := range g.Edges {
		if e.Kind != EdgePrerequisite || e.Unresolved {
			continue
		}
		fwd[e.Source] = append(fwd[e.Source], e.Target)
	}
	return fwd
}

// PrereqReverse returns the reverse adjacency of the prerequisite sub-graph:
// for each target node, the ordered list of sources that require it.
func (g *Graph) PrereqReverse() map[string][]string {
	rev := make(map[string][]string)
	for _, e := range g.Edges {
		if e.Kind != EdgePrerequisite || e.Unresolved {
			continue
		}
		rev[e.Target] = append(rev[e.Target], e.Source)
	}
	return rev
}

// Roots returns the chapter ids in document order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.Order {
		if g.Nodes[id].IsRoot() {
			roots = append(roots, id)
		}
	}
	return roots
}

// GraphStats holds aggregate counts for the stats endpoint.
type GraphStats struct {
	TotalRuns        int `json:"total_runs"`
	CleanRuns        int `json:"clean_runs"`
	TotalNodes       int `json:"total_nodes"`
	TotalEdges       int `json:"total_edges"`
	TotalErrors      int `json:"total_errors"`
	TotalWarnings    int `json:"total_warnings"`
	TotalPlanEntries int `json:"total_plan_entries"`
}

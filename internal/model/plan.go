package model

// PlanEntry is one scheduled node in a study plan.
type PlanEntry struct {
	NodeID string  `json:"node_id"`
	Cost   float64 `json:"cost"`
	// Cumulative is the total budget consumed through this entry.
	Cumulative float64 `json:"cumulative"`
}

// StudyPlan is a budget-constrained, prerequisite-respecting traversal order
// over the graph's nodes.
type StudyPlan struct {
	Entries []PlanEntry `json:"entries"`
	Budget  float64     `json:"budget"`
	// TotalCost is the cumulative cost of the final entry, never exceeding
	// the budget.
	TotalCost float64 `json:"total_cost"`
}

// Contains reports whether the plan schedules the given node.
func (p *StudyPlan) Contains(nodeID string) bool {
	for _, e := range p.Entries {
		if e.NodeID == nodeID {
			return true
		}
	}
	return false
}

// NodeIDs returns the scheduled node ids in plan order.
func (p *StudyPlan) NodeIDs() []string {
	ids := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		ids[i] = e.NodeID
	}
	return ids
}

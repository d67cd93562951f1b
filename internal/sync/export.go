package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunCount  int       `json:"run_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// exportedRun is a run with its graph, diagnostics, and plan inlined.
type exportedRun struct {
	*model.Run
	Graph       *exportedGraph     `json:"graph,omitempty"`
	Diagnostics []model.Diagnostic `json:"diagnostics,omitempty"`
	Plan        *model.StudyPlan   `json:"plan,omitempty"`
}

// exportedGraph flattens a graph into node and edge lists in document order.
type exportedGraph struct {
	Nodes []*model.Node `json:"nodes"`
	Edges []*model.Edge `json:"edges"`
}

func flattenGraph(g *model.Graph) *exportedGraph {
	eg := &exportedGraph{Edges: g.Edges}
	for _, id := range g.Order {
		eg.Nodes = append(eg.Nodes, g.Nodes[id])
	}
	return eg
}

// ExportJSONL writes all runs from the store as JSONL to w. Runs are sorted
// by ID and include their graph, diagnostics, and plan where present.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	// Fetch all runs (no filter, large page).
	runs, _, err := s.ListRuns(ctx, model.RunFilter{Sort: "created_at", Limit: 10000})
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	exported := make([]exportedRun, 0, len(runs))
	for _, r := range runs {
		er := exportedRun{Run: r}

		g, err := s.GetGraph(ctx, r.ID)
		switch {
		case err == nil:
			er.Graph = flattenGraph(g)
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get graph for %s: %w", r.ID, err)
		}

		diags, err := s.GetDiagnostics(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("get diagnostics for %s: %w", r.ID, err)
		}
		er.Diagnostics = diags

		if r.Planned {
			p, err := s.GetPlan(ctx, r.ID)
			switch {
			case err == nil:
				er.Plan = p
			case !errors.Is(err, store.ErrNotFound):
				return fmt.Errorf("get plan for %s: %w", r.ID, err)
			}
		}

		exported = append(exported, er)
	}

	// Sort runs by ID.
	sort.Slice(exported, func(i, j int) bool {
		return exported[i].ID < exported[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:   "1",
		Type:      "header",
		Timestamp: time.Now().UTC(),
		RunCount:  len(exported),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write runs.
	for _, er := range exported {
		if err := enc.Encode(record{Type: "run", Data: er}); err != nil {
			return fmt.Errorf("encode run %s: %w", er.ID, err)
		}
	}

	return nil
}

package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/groblegark/syllabus/internal/model"
)

func testGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.NewGraph()
	if err := g.AddNode(&model.Node{ID: "strings", Title: "Strings", Depth: model.DepthChapter, Ordinal: 1}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(&model.Node{ID: "strings.basics", Title: "Basics", Depth: model.DepthSection, Ordinal: 1, Parent: "strings"}); err != nil {
		t.Fatal(err)
	}
	g.Node("strings").Children = []string{"strings.basics"}
	return g
}

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.RunCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_WithRuns(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Add runs out of ID order to verify sorting.
	ms.runs["syl-zzz"] = &model.Run{ID: "syl-zzz", Source: "b.md", CreatedAt: now, NodeCount: 2, Clean: true}
	ms.runs["syl-aaa"] = &model.Run{ID: "syl-aaa", Source: "a.md", CreatedAt: now, NodeCount: 2, Clean: true, Planned: true}

	// Attach a graph, diagnostics, and plan to syl-aaa.
	ms.graphs["syl-aaa"] = testGraph(t)
	ms.diags["syl-aaa"] = []model.Diagnostic{
		{Severity: model.SeverityWarning, Kind: model.DiagNumberingGap, NodeIDs: []string{"strings"}, Message: "children of strings are not numbered 1..1"},
	}
	ms.plans["syl-aaa"] = &model.StudyPlan{
		Budget:    2,
		TotalCost: 2,
		Entries: []model.PlanEntry{
			{NodeID: "strings", Cost: 1, Cumulative: 1},
			{NodeID: "strings.basics", Cost: 1, Cumulative: 2},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 runs = 3 lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Verify header.
	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.RunCount != 2 {
		t.Fatalf("header run count: %d", h.RunCount)
	}

	// Verify runs are sorted by ID (syl-aaa before syl-zzz).
	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "run" || rec2.Type != "run" {
		t.Fatalf("expected run types, got %q and %q", rec1.Type, rec2.Type)
	}

	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var r1, r2 exportedRun
	if err := json.Unmarshal(data1, &r1); err != nil {
		t.Fatalf("unmarshal r1: %v", err)
	}
	if err := json.Unmarshal(data2, &r2); err != nil {
		t.Fatalf("unmarshal r2: %v", err)
	}

	if r1.ID != "syl-aaa" || r2.ID != "syl-zzz" {
		t.Fatalf("runs not sorted: got %q, %q", r1.ID, r2.ID)
	}

	// Verify syl-aaa has embedded graph, diagnostics, and plan.
	if r1.Graph == nil || len(r1.Graph.Nodes) != 2 {
		t.Fatalf("expected 2 graph nodes for syl-aaa, got %+v", r1.Graph)
	}
	if len(r1.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic for syl-aaa, got %d", len(r1.Diagnostics))
	}
	if r1.Plan == nil || len(r1.Plan.Entries) != 2 {
		t.Fatalf("expected plan with 2 entries for syl-aaa, got %+v", r1.Plan)
	}

	// syl-zzz has no stored graph and is not planned.
	if r2.Graph != nil || r2.Plan != nil {
		t.Fatalf("expected no graph or plan for syl-zzz, got %+v", r2)
	}
}

func TestExportJSONL_GraphNodesInDocumentOrder(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()
	ms.runs["syl-1"] = &model.Run{ID: "syl-1", Source: "a.md", CreatedAt: now}
	ms.graphs["syl-1"] = testGraph(t)

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	var rec record
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("unmarshal run line: %v", err)
	}
	data, _ := json.Marshal(rec.Data)
	var er exportedRun
	if err := json.Unmarshal(data, &er); err != nil {
		t.Fatalf("unmarshal run: %v", err)
	}
	if er.Graph.Nodes[0].ID != "strings" || er.Graph.Nodes[1].ID != "strings.basics" {
		t.Fatalf("nodes out of document order: %q, %q", er.Graph.Nodes[0].ID, er.Graph.Nodes[1].ID)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}

package plan

import (
	"errors"
	"reflect"
	"testing"

	"github.com/groblegark/syllabus/internal/document"
	"github.com/groblegark/syllabus/internal/model"
)

func buildGraph(t *testing.T, events []document.Event) *model.Graph {
	t.Helper()
	g, err := document.Build(events)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func chapters(t *testing.T, titles ...string) *model.Graph {
	t.Helper()
	events := make([]document.Event, len(titles))
	for i, title := range titles {
		events[i] = document.Event{Kind: document.ChapterStart, Title: title}
	}
	return buildGraph(t, events)
}

func prereq(g *model.Graph, source, target string) {
	g.AddEdge(&model.Edge{Kind: model.EdgePrerequisite, Source: source, Target: target})
}

func planIDs(p *model.StudyPlan) []string {
	return p.NodeIDs()
}

func TestCompute_DocumentOrderByDefault(t *testing.T) {
	g := chapters(t, "Strings", "Collections", "Graphs")
	p, err := Compute(g, Options{Budget: 100})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"strings", "collections", "graphs"}
	if !reflect.DeepEqual(planIDs(p), want) {
		t.Errorf("plan = %v, want document order %v", planIDs(p), want)
	}
}

func TestCompute_PrerequisitePrecedes(t *testing.T) {
	g := chapters(t, "Collections", "Strings")
	// Strings before Collections.
	prereq(g, "collections", "strings")
	p, err := Compute(g, Options{Budget: 100})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"strings", "collections"}
	if !reflect.DeepEqual(planIDs(p), want) {
		t.Errorf("plan = %v, want %v", planIDs(p), want)
	}
}

func TestCompute_PriorityWinsAmongEligible(t *testing.T) {
	g := chapters(t, "A", "B", "C")
	p, err := Compute(g, Options{
		Budget:            100,
		PriorityOverrides: map[string]float64{"c": 5, "b": 2},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"c", "b", "a"}
	if !reflect.DeepEqual(planIDs(p), want) {
		t.Errorf("plan = %v, want %v", planIDs(p), want)
	}
}

func TestCompute_BudgetBoundary(t *testing.T) {
	g := chapters(t, "A", "B", "C")
	prereq(g, "b", "a")
	p, err := Compute(g, Options{
		Budget:          2, // exactly cost(a) + cost(b)
		EffortOverrides: map[string]float64{"c": 1.5},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !p.Contains("a") || !p.Contains("b") {
		t.Errorf("plan should include a and b, got %v", planIDs(p))
	}
	if p.Contains("c") {
		t.Errorf("plan must not include c, got %v", planIDs(p))
	}
	if p.TotalCost > p.Budget {
		t.Errorf("total cost %v exceeds budget %v", p.TotalCost, p.Budget)
	}
}

func TestCompute_StringsBeforeCollectionsScenario(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.SectionStart, Title: "Basics"},
		{Kind: document.ChapterStart, Title: "Collections"},
		{Kind: document.SectionStart, Title: "Lists"},
		{Kind: document.ChapterStart, Title: "Graphs"},
	})
	prereq(g, "collections.lists", "strings.basics")

	// Budget covers exactly one unit; every other node must wait.
	p, err := Compute(g, Options{
		Budget: 1,
		PriorityOverrides: map[string]float64{
			"strings.basics":    10,
			"collections.lists": 9,
		},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"strings.basics"}
	if !reflect.DeepEqual(planIDs(p), want) {
		t.Errorf("plan = %v, want %v", planIDs(p), want)
	}
}

func TestCompute_NeverSchedulesWithUnmetPrereqs(t *testing.T) {
	g := chapters(t, "A", "B", "C")
	prereq(g, "b", "a")
	// a does not fit, so b must never be scheduled even though budget remains.
	p, err := Compute(g, Options{
		Budget:          3,
		EffortOverrides: map[string]float64{"a": 10},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if p.Contains("a") || p.Contains("b") {
		t.Errorf("plan = %v, must not contain a or b", planIDs(p))
	}
	if !p.Contains("c") {
		t.Errorf("plan = %v, should still contain c", planIDs(p))
	}
}

func TestCompute_Deterministic(t *testing.T) {
	g := chapters(t, "A", "B", "C", "D", "E")
	prereq(g, "d", "b")
	prereq(g, "e", "b")
	opts := Options{
		Budget:            4,
		EffortOverrides:   map[string]float64{"c": 2},
		PriorityOverrides: map[string]float64{"e": 1, "d": 1},
	}
	first, err := Compute(g, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Compute(g, opts)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

func TestCompute_CumulativeCosts(t *testing.T) {
	g := chapters(t, "A", "B")
	p, err := Compute(g, Options{
		Budget:          5,
		EffortOverrides: map[string]float64{"a": 2, "b": 1.5},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(p.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(p.Entries))
	}
	if p.Entries[0].Cumulative != 2 || p.Entries[1].Cumulative != 3.5 {
		t.Errorf("cumulative = %v, %v; want 2, 3.5", p.Entries[0].Cumulative, p.Entries[1].Cumulative)
	}
	if p.TotalCost != 3.5 {
		t.Errorf("total = %v, want 3.5", p.TotalCost)
	}
}

func TestCompute_CyclicInput(t *testing.T) {
	g := chapters(t, "A", "B")
	prereq(g, "a", "b")
	prereq(g, "b", "a")
	_, err := Compute(g, Options{Budget: 10})
	var pe *PlanningError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PlanningError, got %v", err)
	}
	if pe.Kind != CyclicInput {
		t.Errorf("kind = %s, want %s", pe.Kind, CyclicInput)
	}
}

func TestCompute_DanglingInput(t *testing.T) {
	g := chapters(t, "A")
	prereq(g, "a", "ghost")
	_, err := Compute(g, Options{Budget: 10})
	var pe *PlanningError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PlanningError, got %v", err)
	}
	if pe.Kind != DanglingInput {
		t.Errorf("kind = %s, want %s", pe.Kind, DanglingInput)
	}
}

func TestCompute_InvalidBudget(t *testing.T) {
	g := chapters(t, "A")
	for _, budget := range []float64{0, -1} {
		_, err := Compute(g, Options{Budget: budget})
		var pe *PlanningError
		if !errors.As(err, &pe) {
			t.Fatalf("budget %v: expected *PlanningError, got %v", budget, err)
		}
		if pe.Kind != InvalidBudget {
			t.Errorf("budget %v: kind = %s, want %s", budget, pe.Kind, InvalidBudget)
		}
	}
}

func TestCompute_EqualPriorityTieBreaksByDocOrder(t *testing.T) {
	g := chapters(t, "A", "B", "C")
	// All three carry the same non-zero weight; document order decides.
	p, err := Compute(g, Options{
		Budget:            100,
		PriorityOverrides: map[string]float64{"a": 5, "b": 5, "c": 5},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(planIDs(p), want) {
		t.Errorf("plan = %v, want %v", planIDs(p), want)
	}
}

func TestCompute_SkipBlocksTransitiveDependents(t *testing.T) {
	g := chapters(t, "A", "B", "C", "D")
	// Chain d -> c -> b; b does not fit, so c and d are out with it.
	prereq(g, "c", "b")
	prereq(g, "d", "c")
	p, err := Compute(g, Options{
		Budget:          5,
		EffortOverrides: map[string]float64{"b": 10},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := []string{"a"}
	if !reflect.DeepEqual(planIDs(p), want) {
		t.Errorf("plan = %v, want %v", planIDs(p), want)
	}
}

func TestCompute_InvalidCostOverride(t *testing.T) {
	g := chapters(t, "A")
	_, err := Compute(g, Options{Budget: 1, EffortOverrides: map[string]float64{"a": 0}})
	var pe *PlanningError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PlanningError, got %v", err)
	}
	if pe.Kind != InvalidCost {
		t.Errorf("kind = %s, want %s", pe.Kind, InvalidCost)
	}
}

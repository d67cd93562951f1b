package resolve

import (
	"errors"
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

func edgesOfKind(g *model.Graph, kind model.EdgeKind) []*model.Edge {
	var out []*model.Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestResolve_ExactIDMatch(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.SectionStart, Title: "Basics"},
		{Kind: document.ChapterStart, Title: "Collections"},
		{Kind: document.TopicItem, Title: "Lists [[strings.basics]]"},
	})
	if err := Resolve(g); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	refs := edgesOfKind(g, model.EdgeCrossReference)
	if len(refs) != 1 {
		t.Fatalf("got %d cross-reference edges, want 1", len(refs))
	}
	if refs[0].Target != "strings.basics" || refs[0].Unresolved {
		t.Errorf("edge = %+v, want resolved target strings.basics", refs[0])
	}
}

// An exact id reference never fails to resolve when the id exists.
func TestResolve_IDRoundTrip(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.SectionStart, Title: "Basics"},
		{Kind: document.SectionStart, Title: "Matching"},
	})
	for _, id := range g.Order {
		n := g.Node("strings.matching")
		n.Text = "[[" + id + "]]"
		edges := len(g.Edges)
		if err := Resolve(g); err != nil {
			t.Fatalf("Resolve(%q): %v", id, err)
		}
		added := g.Edges[edges:]
		if len(added) != 1 || added[0].Unresolved || added[0].Target != id {
			t.Errorf("reference to existing id %q did not resolve: %+v", id, added)
		}
	}
}

func TestResolve_TitleMatchCaseInsensitive(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.ChapterStart, Title: "Collections"},
		{Kind: document.TopicItem, Title: "Arrays requires: strings"},
	})
	if err := Resolve(g); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	prereqs := edgesOfKind(g, model.EdgePrerequisite)
	if len(prereqs) != 1 {
		t.Fatalf("got %d prerequisite edges, want 1", len(prereqs))
	}
	if prereqs[0].Target != "strings" {
		t.Errorf("target = %q, want strings", prereqs[0].Target)
	}
}

func TestResolve_PrereqList(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.ChapterStart, Title: "Big O"},
		{Kind: document.ChapterStart, Title: "Graphs"},
	})
	g.Node("graphs").Text = "requires: Strings, Big O"
	if err := Resolve(g); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	prereqs := edgesOfKind(g, model.EdgePrerequisite)
	if len(prereqs) != 2 {
		t.Fatalf("got %d prerequisite edges, want 2", len(prereqs))
	}
	targets := map[string]bool{}
	for _, e := range prereqs {
		if e.Source != "graphs" {
			t.Errorf("source = %q, want graphs", e.Source)
		}
		targets[e.Target] = true
	}
	if !targets["strings"] || !targets["big-o"] {
		t.Errorf("targets = %v, want strings and big-o", targets)
	}
}

func TestResolve_UnresolvedKept(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.TopicItem, Title: "See [[Nonexistent Chapter]]"},
	})
	if err := Resolve(g); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	refs := edgesOfKind(g, model.EdgeCrossReference)
	if len(refs) != 1 {
		t.Fatalf("got %d cross-reference edges, want 1", len(refs))
	}
	e := refs[0]
	if !e.Unresolved {
		t.Error("reference to unknown target should be kept as unresolved")
	}
	if e.RawRef != "Nonexistent Chapter" {
		t.Errorf("raw_ref = %q, want original text", e.RawRef)
	}
}

func TestResolve_AmbiguousTitle(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.SectionStart, Title: "Basics"},
		{Kind: document.ChapterStart, Title: "Collections"},
		{Kind: document.SectionStart, Title: "Basics"},
		{Kind: document.ChapterStart, Title: "Graphs"},
	})
	g.Node("graphs").Text = "[[Basics]]"
	err := Resolve(g)
	var amb *AmbiguousReferenceError
	if !errors.As(err, &amb) {
		t.Fatalf("expected *AmbiguousReferenceError, got %v", err)
	}
	if len(amb.Candidates) != 2 {
		t.Errorf("candidates = %v, want 2 entries", amb.Candidates)
	}
	if amb.NodeID != "graphs" || amb.Ref != "Basics" {
		t.Errorf("error = %+v, want node graphs ref Basics", amb)
	}
}

func TestResolve_TextUntouched(t *testing.T) {
	g := buildGraph(t, []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.TopicItem, Title: "Slices [[strings]]"},
	})
	before := g.Node("strings.slices-strings").Text
	if err := Resolve(g); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if g.Node("strings.slices-strings").Text != before {
		t.Error("resolver must not mutate node text")
	}
}

package server

import (
	"testing"

	"github.com/groblegark/syllabus/internal/model"
)

func TestValidateGraph(t *testing.T) {
	valid := model.NewGraph()
	if err := valid.AddNode(&model.Node{ID: "strings", Title: "Strings", Depth: model.DepthChapter, Ordinal: 1}); err != nil {
		t.Fatalf("seed graph: %v", err)
	}
	valid.AddEdge(&model.Edge{Kind: model.EdgeCrossReference, Source: "strings", Target: "strings"})

	if err := validateGraph(valid); err != nil {
		t.Fatalf("valid graph rejected: %v", err)
	}

	badNode := model.NewGraph()
	if err := badNode.AddNode(&model.Node{ID: "strings", Depth: model.DepthChapter, Ordinal: 1}); err != nil {
		t.Fatalf("seed graph: %v", err)
	}
	if err := validateGraph(badNode); err == nil {
		t.Error("node with empty title passed validation")
	}

	badEdge := model.NewGraph()
	if err := badEdge.AddNode(&model.Node{ID: "strings", Title: "Strings", Depth: model.DepthChapter, Ordinal: 1}); err != nil {
		t.Fatalf("seed graph: %v", err)
	}
	badEdge.AddEdge(&model.Edge{Kind: model.EdgePrerequisite, Source: "strings"})
	if err := validateGraph(badEdge); err == nil {
		t.Error("resolved edge with empty target passed validation")
	}
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/groblegark/syllabus/internal/document"
)

func TestParseOutline(t *testing.T) {
	input := `# Strings

Some prose that is ignored.

## Basics
- indexing
- slicing, requires: strings.basics.indexing
* starred topic

## Matching
# Collections
`
	evts, err := parseOutline(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseOutline: %v", err)
	}

	want := []document.Event{
		{Kind: document.ChapterStart, Title: "Strings"},
		{Kind: document.SectionStart, Title: "Basics"},
		{Kind: document.TopicItem, Title: "indexing"},
		{Kind: document.TopicItem, Title: "slicing, requires: strings.basics.indexing"},
		{Kind: document.TopicItem, Title: "starred topic"},
		{Kind: document.SectionStart, Title: "Matching"},
		{Kind: document.ChapterStart, Title: "Collections"},
	}
	if len(evts) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(evts), len(want), evts)
	}
	for i := range want {
		if evts[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, evts[i], want[i])
		}
	}
}

func TestParseOutline_IndentedLines(t *testing.T) {
	evts, err := parseOutline(strings.NewReader("  # Strings\n   - indexing\n"))
	if err != nil {
		t.Fatalf("parseOutline: %v", err)
	}
	if len(evts) != 2 {
		t.Fatalf("got %d events, want 2", len(evts))
	}
	if evts[0].Kind != document.ChapterStart || evts[1].Kind != document.TopicItem {
		t.Errorf("events = %+v", evts)
	}
}

func TestLoadPlanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.toml")
	content := `budget = 14.0

[effort]
"strings.basics" = 2.5

[priority]
"collections" = 10.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := loadPlanFile(path)
	if err != nil {
		t.Fatalf("loadPlanFile: %v", err)
	}
	if opts.Budget != 14.0 {
		t.Errorf("budget = %v", opts.Budget)
	}
	if opts.EffortOverrides["strings.basics"] != 2.5 {
		t.Errorf("effort = %v", opts.EffortOverrides)
	}
	if opts.PriorityOverrides["collections"] != 10.0 {
		t.Errorf("priority = %v", opts.PriorityOverrides)
	}
}

func TestResolvePlanOptions_FlagBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.toml")
	if err := os.WriteFile(path, []byte("budget = 3.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := resolvePlanOptions(7, path)
	if err != nil {
		t.Fatalf("resolvePlanOptions: %v", err)
	}
	if opts.Budget != 7 {
		t.Errorf("budget = %v, want flag value 7", opts.Budget)
	}
}

func TestResolvePlanOptions_NeitherGiven(t *testing.T) {
	opts, err := resolvePlanOptions(0, "")
	if err != nil {
		t.Fatalf("resolvePlanOptions: %v", err)
	}
	if opts != nil {
		t.Errorf("opts = %+v, want nil", opts)
	}
}

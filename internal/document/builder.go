package document

import (
	"fmt"
	"strings"

	"github.com/groblegark/syllabus/internal/model"
)

// StructureErrorKind identifies a fatal structural defect in the event stream.
type StructureErrorKind string

const (
	// OrphanAtRoot is a section or topic appearing before any chapter.
	OrphanAtRoot StructureErrorKind = "orphan_at_root"
	// BadEvent is an event with an unknown kind or an empty title.
	BadEvent StructureErrorKind = "bad_event"
)

// StructureError is a fatal builder error. No graph is produced when one is
// returned; a partial graph is never exposed.
type StructureError struct {
	Kind StructureErrorKind
	// Index is the zero-based position of the offending event.
	Index int
	Event Event
}

// Error formats the structure error with the event position and kind.
func (e *StructureError) Error() string {
	return fmt.Sprintf("structure error at event %d (%s %q): %s",
		e.Index, e.Event.Kind, e.Event.Title, e.Kind)
}

// Build converts an ordered event sequence into a graph containing only
// containment structure. Cross-references and prerequisites are resolved
// later; node text is carried over untouched for the resolver to scan.
//
// Ids are stable dotted paths of sanitized titles ("chapter.section.topic");
// a collision among siblings appends "-2", "-3", and so on. Sibling ordinals
// are assigned contiguously from 1 within each parent.
func Build(events []Event) (*model.Graph, error) {
	g := model.NewGraph()

	var chapter, section *model.Node

	for i, ev := range events {
		if !ev.Kind.IsValid() || strings.TrimSpace(ev.Title) == "" {
			return nil, &StructureError{Kind: BadEvent, Index: i, Event: ev}
		}

		switch ev.Kind {
		case ChapterStart:
			n := &model.Node{
				Title:   ev.Title,
				Depth:   model.DepthChapter,
				Ordinal: len(g.Roots()) + 1,
			}
			n.ID = assignID(g, "", ev.Title)
			if err := g.AddNode(n); err != nil {
				return nil, fmt.Errorf("add chapter at event %d: %w", i, err)
			}
			chapter = n
			section = nil

		case SectionStart:
			if chapter == nil {
				return nil, &StructureError{Kind: OrphanAtRoot, Index: i, Event: ev}
			}
			n := &model.Node{
				Title:   ev.Title,
				Depth:   model.DepthSection,
				Ordinal: len(chapter.Children) + 1,
				Parent:  chapter.ID,
			}
			n.ID = assignID(g, chapter.ID, ev.Title)
			if err := g.AddNode(n); err != nil {
				return nil, fmt.Errorf("add section at event %d: %w", i, err)
			}
			chapter.Children = append(chapter.Children, n.ID)
			section = n

		case TopicItem:
			if chapter == nil {
				return nil, &StructureError{Kind: OrphanAtRoot, Index: i, Event: ev}
			}
			parent := section
			skip := false
			if parent == nil {
				// Chapters that are plain bullet lists attach topics
				// directly; recorded, not rejected.
				parent = chapter
				skip = true
			}
			n := &model.Node{
				Title:     ev.Title,
				Text:      ev.Title,
				Depth:     model.DepthTopic,
				Ordinal:   len(parent.Children) + 1,
				Parent:    parent.ID,
				LevelSkip: skip,
			}
			n.ID = assignID(g, parent.ID, ev.Title)
			if err := g.AddNode(n); err != nil {
				return nil, fmt.Errorf("add topic at event %d: %w", i, err)
			}
			parent.Children = append(parent.Children, n.ID)
		}
	}

	return g, nil
}

// assignID derives a unique dotted-path id for a node under the given parent.
func assignID(g *model.Graph, parentID, title string) string {
	seg := Sanitize(title)
	id := seg
	if parentID != "" {
		id = parentID + "." + seg
	}
	// Disambiguate collisions with a numeric suffix.
	candidate := id
	for n := 2; g.Node(candidate) != nil; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

// Sanitize lowercases a title and reduces it to a hyphen-joined slug of its
// alphanumeric runs, suitable for use as an id segment.
func Sanitize(title string) string {
	var b strings.Builder
	lastHyphen := true // trim leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

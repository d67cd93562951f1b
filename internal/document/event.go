// Package document converts a flat sequence of heading and list events into
// the containment tree of a content graph. The low-level tokenizer that
// produces the events is external; this package starts at the event stream.
package document

// EventKind identifies a structural event emitted by the tokenizer.
type EventKind string

const (
	// ChapterStart opens a new chapter (depth 0).
	ChapterStart EventKind = "chapter_start"
	// SectionStart opens a new section under the current chapter (depth 1).
	SectionStart EventKind = "section_start"
	// TopicItem is a bullet topic under the current section, or directly
	// under the current chapter when the document skips the section level.
	TopicItem EventKind = "topic_item"
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	return string(k)
}

// IsValid checks whether the event kind is a known value.
func (k EventKind) IsValid() bool {
	switch k {
	case ChapterStart, SectionStart, TopicItem:
		return true
	}
	return false
}

// Event is one heading or list item from the tokenizer. Title carries the
// heading text for chapters and sections; for topics it is the bullet text,
// which may also contain reference markers picked up later by the resolver.
type Event struct {
	Kind  EventKind `json:"kind"`
	Title string    `json:"title"`
}

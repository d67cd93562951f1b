package model

// Depth values for the three levels of the document hierarchy.
const (
	DepthChapter = 0
	DepthSection = 1
	DepthTopic   = 2
)

// Depth is the level of a node within the document hierarchy.
type Depth int

// String returns a human-readable name for the depth.
func (d Depth) String() string {
	switch d {
	case DepthChapter:
		return "chapter"
	case DepthSection:
		return "section"
	case DepthTopic:
		return "topic"
	}
	return "unknown"
}

// IsValid checks whether the depth is one of the three hierarchy levels.
func (d Depth) IsValid() bool {
	return d >= DepthChapter && d <= DepthTopic
}

// Node is a single entry in the document hierarchy: a chapter, a section,
// or a bullet topic.
type Node struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Text    string `json:"text,omitempty"`
	Depth   Depth  `json:"depth"`
	Ordinal int    `json:"ordinal"`
	// Parent is a back-reference only; ownership of children lives in the
	// Children slice of the parent. Empty for chapters.
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
	// LevelSkip marks a topic that sits directly under a chapter with no
	// intermediate section. Some documents have chapters that are plain
	// bullet lists; this is recorded, not rejected.
	LevelSkip bool `json:"level_skip,omitempty"`
}

// IsRoot reports whether the node is a chapter (no parent).
func (n *Node) IsRoot() bool {
	return n.Parent == ""
}

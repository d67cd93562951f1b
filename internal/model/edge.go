package model

// EdgeKind categorizes a declared relationship between two nodes.
// Containment is implicit in the tree structure and is never stored as an
// edge; only declared cross-references and prerequisites appear here.
type EdgeKind string

const (
	// EdgeCrossReference is a "see also"-style link between arbitrary nodes.
	EdgeCrossReference EdgeKind = "cross_reference"
	// EdgePrerequisite declares that the target must be studied before the
	// source ("before Source, go through Target").
	EdgePrerequisite EdgeKind = "prerequisite"
)

// String returns the string representation of the edge kind.
func (k EdgeKind) String() string {
	return string(k)
}

// IsValid checks whether the edge kind is a known value.
func (k EdgeKind) IsValid() bool {
	switch k {
	case EdgeCrossReference, EdgePrerequisite:
		return true
	}
	return false
}

// Edge is a declared, directional relationship between two nodes.
type Edge struct {
	Kind   EdgeKind `json:"kind"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	// Unresolved marks a reference whose text matched no node. The raw
	// reference text is preserved so diagnostics can name it instead of
	// dropping it silently.
	Unresolved bool   `json:"unresolved,omitempty"`
	RawRef     string `json:"raw_ref,omitempty"`
}

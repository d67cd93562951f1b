package model

// Severity ranks a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid checks whether the severity is a known value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning:
		return true
	}
	return false
}

// Rank returns a sort key: errors order before warnings.
func (s Severity) Rank() int {
	if s == SeverityError {
		return 0
	}
	return 1
}

// DiagnosticKind identifies the structural defect a diagnostic reports.
type DiagnosticKind string

const (
	// DiagDanglingReference is an edge whose source or target id is absent
	// from the graph (including references that never resolved).
	DiagDanglingReference DiagnosticKind = "dangling_reference"
	// DiagOrphanNode is a non-chapter node unreachable from any chapter via
	// containment.
	DiagOrphanNode DiagnosticKind = "orphan_node"
	// DiagPrerequisiteCycle is a cycle in the prerequisite sub-graph.
	DiagPrerequisiteCycle DiagnosticKind = "prerequisite_cycle"
	// DiagNumberingGap is a parent whose sibling ordinals are not a
	// contiguous 1..N sequence.
	DiagNumberingGap DiagnosticKind = "numbering_gap"
)

// String returns the string representation of the diagnostic kind.
func (k DiagnosticKind) String() string {
	return string(k)
}

// Diagnostic is a single structural finding over a graph.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Kind     DiagnosticKind `json:"kind"`
	// NodeIDs names the offending node(s) or edge endpoint(s). For a cycle
	// it is the full ordered cycle from the first repeated node back to
	// itself, e.g. [a, b, c, a].
	NodeIDs []string `json:"node_ids"`
	Message string   `json:"message"`
}

// Report is the ordered aggregation of all diagnostics from one run.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Clean is true iff the report contains zero error-level diagnostics.
	Clean bool `json:"clean"`
}

// Errors returns the number of error-level diagnostics.
func (r *Report) Errors() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning-level diagnostics.
func (r *Report) Warnings() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

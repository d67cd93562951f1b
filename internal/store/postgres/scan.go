package postgres

import (
	"github.com/lib/pq"

	"github.com/groblegark/syllabus/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanRun scans a single row into a model.Run.
// The row must contain columns in the order defined by runColumns.
func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	err := row.Scan(
		&r.ID,
		&r.Source,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.NodeCount,
		&r.EdgeCount,
		&r.ErrorCount,
		&r.WarningCount,
		&r.Clean,
		&r.Planned,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// scanRunWithTotal scans a run row with a leading total_count column.
func scanRunWithTotal(row scannable) (*model.Run, int, error) {
	var r model.Run
	var total int
	err := row.Scan(
		&total,
		&r.ID,
		&r.Source,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.NodeCount,
		&r.EdgeCount,
		&r.ErrorCount,
		&r.WarningCount,
		&r.Clean,
		&r.Planned,
	)
	if err != nil {
		return nil, 0, err
	}
	return &r, total, nil
}

// scanNode scans a node row (id, title, node_text, depth, ordinal, parent, level_skip).
func scanNode(row scannable) (*model.Node, error) {
	var n model.Node
	var depth int
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Text,
		&depth,
		&n.Ordinal,
		&n.Parent,
		&n.LevelSkip,
	)
	if err != nil {
		return nil, err
	}
	n.Depth = model.Depth(depth)
	return &n, nil
}

// scanEdge scans an edge row (kind, source, target, unresolved, raw_ref).
func scanEdge(row scannable) (*model.Edge, error) {
	var e model.Edge
	var kind string
	err := row.Scan(
		&kind,
		&e.Source,
		&e.Target,
		&e.Unresolved,
		&e.RawRef,
	)
	if err != nil {
		return nil, err
	}
	e.Kind = model.EdgeKind(kind)
	return &e, nil
}

// scanDiagnostic scans a diagnostic row (severity, kind, node_ids, message).
func scanDiagnostic(row scannable) (*model.Diagnostic, error) {
	var d model.Diagnostic
	var severity, kind string
	var nodeIDs pq.StringArray
	err := row.Scan(
		&severity,
		&kind,
		&nodeIDs,
		&d.Message,
	)
	if err != nil {
		return nil, err
	}
	d.Severity = model.Severity(severity)
	d.Kind = model.DiagnosticKind(kind)
	d.NodeIDs = []string(nodeIDs)
	return &d, nil
}

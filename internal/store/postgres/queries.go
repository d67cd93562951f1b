package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/store"
)

// runColumns is the column list used for SELECT statements on the runs table.
const runColumns = `id, source, created_at, created_by, node_count, edge_count,
	error_count, warning_count, clean, planned`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateRun(ctx context.Context, db executor, r *model.Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs (
			id, source, created_at, created_by, node_count, edge_count,
			error_count, warning_count, clean, planned
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)`,
		r.ID,
		r.Source,
		r.CreatedAt,
		r.CreatedBy,
		r.NodeCount,
		r.EdgeCount,
		r.ErrorCount,
		r.WarningCount,
		r.Clean,
		r.Planned,
	)
	return err
}

func queryGetRun(ctx context.Context, db executor, id string) (*model.Run, error) {
	row := db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return r, err
}

func queryUpdateRun(ctx context.Context, db executor, r *model.Run) error {
	res, err := db.ExecContext(ctx, `
		UPDATE runs SET
			source = $2, created_by = $3, node_count = $4, edge_count = $5,
			error_count = $6, warning_count = $7, clean = $8, planned = $9
		WHERE id = $1`,
		r.ID,
		r.Source,
		r.CreatedBy,
		r.NodeCount,
		r.EdgeCount,
		r.ErrorCount,
		r.WarningCount,
		r.Clean,
		r.Planned,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return store.ErrNotFound
	}
	return err
}

func queryDeleteRun(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return store.ErrNotFound
	}
	return err
}

// parseSortClause maps a filter sort spec to an ORDER BY clause over a fixed
// set of sortable columns. Unknown specs fall back to newest-first.
func parseSortClause(sort string) string {
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	switch col {
	case "created_at", "source", "node_count", "error_count":
	default:
		return "ORDER BY created_at DESC"
	}
	if desc {
		return "ORDER BY " + col + " DESC"
	}
	return "ORDER BY " + col + " ASC"
}

func queryListRuns(ctx context.Context, db executor, filter model.RunFilter) ([]*model.Run, int, error) {
	var conds []string
	var args []any

	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Source != "" {
		conds = append(conds, "source = "+addArg(filter.Source))
	}
	if filter.CreatedBy != "" {
		conds = append(conds, "created_by = "+addArg(filter.CreatedBy))
	}
	if filter.Clean != nil {
		conds = append(conds, "clean = "+addArg(*filter.Clean))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER () AS total_count, %s
		FROM runs %s %s
		LIMIT %s OFFSET %s`,
		runColumns, where, parseSortClause(filter.Sort),
		addArg(limit), addArg(filter.Offset),
	)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*model.Run
	total := 0
	for rows.Next() {
		r, t, err := scanRunWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = t
		runs = append(runs, r)
	}
	return runs, total, rows.Err()
}

func querySaveGraph(ctx context.Context, db executor, runID string, g *model.Graph) error {
	for i, id := range g.Order {
		n := g.Nodes[id]
		_, err := db.ExecContext(ctx, `
			INSERT INTO nodes (run_id, id, title, node_text, depth, ordinal, parent, level_skip, doc_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, n.ID, n.Title, n.Text, int(n.Depth), n.Ordinal, n.Parent, n.LevelSkip, i,
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	for i, e := range g.Edges {
		_, err := db.ExecContext(ctx, `
			INSERT INTO edges (run_id, seq, kind, source, target, unresolved, raw_ref)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			runID, i, string(e.Kind), e.Source, e.Target, e.Unresolved, e.RawRef,
		)
		if err != nil {
			return fmt.Errorf("insert edge %d: %w", i, err)
		}
	}
	return nil
}

func queryGetGraph(ctx context.Context, db executor, runID string) (*model.Graph, error) {
	g := model.NewGraph()

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, node_text, depth, ordinal, parent, level_skip
		FROM nodes WHERE run_id = $1 ORDER BY doc_index`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
		// Children follow their parent in document order, so appending here
		// reproduces the original child ordering.
		if n.Parent != "" {
			if p := g.Node(n.Parent); p != nil {
				p.Children = append(p.Children, n.ID)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if g.Len() == 0 {
		return nil, store.ErrNotFound
	}

	edgeRows, err := db.QueryContext(ctx, `
		SELECT kind, source, target, unresolved, raw_ref
		FROM edges WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		e, err := scanEdge(edgeRows)
		if err != nil {
			return nil, err
		}
		g.AddEdge(e)
	}
	return g, edgeRows.Err()
}

func querySaveDiagnostics(ctx context.Context, db executor, runID string, diags []model.Diagnostic) error {
	for i, d := range diags {
		_, err := db.ExecContext(ctx, `
			INSERT INTO diagnostics (run_id, seq, severity, kind, node_ids, message)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			runID, i, string(d.Severity), string(d.Kind), pq.Array(d.NodeIDs), d.Message,
		)
		if err != nil {
			return fmt.Errorf("insert diagnostic %d: %w", i, err)
		}
	}
	return nil
}

func queryGetDiagnostics(ctx context.Context, db executor, runID string) ([]model.Diagnostic, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT severity, kind, node_ids, message
		FROM diagnostics WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var diags []model.Diagnostic
	for rows.Next() {
		d, err := scanDiagnostic(rows)
		if err != nil {
			return nil, err
		}
		diags = append(diags, *d)
	}
	return diags, rows.Err()
}

func querySavePlan(ctx context.Context, db executor, runID string, p *model.StudyPlan) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO plans (run_id, budget, total_cost) VALUES ($1, $2, $3)
		ON CONFLICT (run_id) DO UPDATE SET budget = $2, total_cost = $3`,
		runID, p.Budget, p.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM plan_entries WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("clear plan entries: %w", err)
	}
	for i, e := range p.Entries {
		_, err := db.ExecContext(ctx, `
			INSERT INTO plan_entries (run_id, seq, node_id, cost, cumulative)
			VALUES ($1, $2, $3, $4, $5)`,
			runID, i, e.NodeID, e.Cost, e.Cumulative,
		)
		if err != nil {
			return fmt.Errorf("insert plan entry %d: %w", i, err)
		}
	}
	return nil
}

func queryGetPlan(ctx context.Context, db executor, runID string) (*model.StudyPlan, error) {
	p := &model.StudyPlan{}
	row := db.QueryRowContext(ctx, `SELECT budget, total_cost FROM plans WHERE run_id = $1`, runID)
	if err := row.Scan(&p.Budget, &p.TotalCost); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT node_id, cost, cumulative
		FROM plan_entries WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e model.PlanEntry
		if err := rows.Scan(&e.NodeID, &e.Cost, &e.Cumulative); err != nil {
			return nil, err
		}
		p.Entries = append(p.Entries, e)
	}
	return p, rows.Err()
}

func queryDeletePlan(ctx context.Context, db executor, runID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM plans WHERE run_id = $1`, runID)
	return err
}

func queryGetStats(ctx context.Context, db executor) (*model.GraphStats, error) {
	var s model.GraphStats
	row := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM runs),
			(SELECT COUNT(*) FROM runs WHERE clean),
			(SELECT COUNT(*) FROM nodes),
			(SELECT COUNT(*) FROM edges),
			(SELECT COUNT(*) FROM diagnostics WHERE severity = 'error'),
			(SELECT COUNT(*) FROM diagnostics WHERE severity = 'warning'),
			(SELECT COUNT(*) FROM plan_entries)`)
	err := row.Scan(
		&s.TotalRuns,
		&s.CleanRuns,
		&s.TotalNodes,
		&s.TotalEdges,
		&s.TotalErrors,
		&s.TotalWarnings,
		&s.TotalPlanEntries,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

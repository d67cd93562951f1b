package server

import (
	"context"
	"sort"

	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/store"
)

// mockStore is an in-memory store for HTTP handler tests.
type mockStore struct {
	runs   map[string]*model.Run
	graphs map[string]*model.Graph
	diags  map[string][]model.Diagnostic
	plans  map[string]*model.StudyPlan

	// saveGraphErr, when non-nil, is returned by SaveGraph (for testing
	// transaction failure paths).
	saveGraphErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		runs:   make(map[string]*model.Run),
		graphs: make(map[string]*model.Graph),
		diags:  make(map[string][]model.Diagnostic),
		plans:  make(map[string]*model.StudyPlan),
	}
}

func (m *mockStore) CreateRun(_ context.Context, run *model.Run) error {
	m.runs[run.ID] = run
	return nil
}

func (m *mockStore) GetRun(_ context.Context, id string) (*model.Run, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (m *mockStore) ListRuns(_ context.Context, filter model.RunFilter) ([]*model.Run, int, error) {
	var result []*model.Run
	for _, r := range m.runs {
		if filter.Source != "" && r.Source != filter.Source {
			continue
		}
		if filter.CreatedBy != "" && r.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Clean != nil && r.Clean != *filter.Clean {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, len(result), nil
}

func (m *mockStore) UpdateRun(_ context.Context, run *model.Run) error {
	if _, ok := m.runs[run.ID]; !ok {
		return store.ErrNotFound
	}
	m.runs[run.ID] = run
	return nil
}

func (m *mockStore) DeleteRun(_ context.Context, id string) error {
	if _, ok := m.runs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.runs, id)
	delete(m.graphs, id)
	delete(m.diags, id)
	delete(m.plans, id)
	return nil
}

func (m *mockStore) SaveGraph(_ context.Context, runID string, g *model.Graph) error {
	if m.saveGraphErr != nil {
		return m.saveGraphErr
	}
	m.graphs[runID] = g
	return nil
}

func (m *mockStore) GetGraph(_ context.Context, runID string) (*model.Graph, error) {
	g, ok := m.graphs[runID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return g, nil
}

func (m *mockStore) SaveDiagnostics(_ context.Context, runID string, diags []model.Diagnostic) error {
	m.diags[runID] = diags
	return nil
}

func (m *mockStore) GetDiagnostics(_ context.Context, runID string) ([]model.Diagnostic, error) {
	return m.diags[runID], nil
}

func (m *mockStore) SavePlan(_ context.Context, runID string, p *model.StudyPlan) error {
	m.plans[runID] = p
	return nil
}

func (m *mockStore) GetPlan(_ context.Context, runID string) (*model.StudyPlan, error) {
	p, ok := m.plans[runID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) DeletePlan(_ context.Context, runID string) error {
	delete(m.plans, runID)
	return nil
}

func (m *mockStore) GetStats(_ context.Context) (*model.GraphStats, error) {
	stats := &model.GraphStats{TotalRuns: len(m.runs)}
	for _, r := range m.runs {
		if r.Clean {
			stats.CleanRuns++
		}
		stats.TotalNodes += r.NodeCount
		stats.TotalEdges += r.EdgeCount
		stats.TotalErrors += r.ErrorCount
		stats.TotalWarnings += r.WarningCount
	}
	for _, p := range m.plans {
		stats.TotalPlanEntries += len(p.Entries)
	}
	return stats, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error {
	return nil
}

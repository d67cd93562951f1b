package store

import (
	"context"
	"errors"

	"github.com/groblegark/syllabus/internal/model"
)

// ErrNotFound is returned when a run (or its artifacts) does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for ingestion runs and their
// graphs, diagnostics, and plans.
type Store interface {
	// Run records
	CreateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, filter model.RunFilter) ([]*model.Run, int, error) // returns runs, total count, error
	UpdateRun(ctx context.Context, run *model.Run) error
	DeleteRun(ctx context.Context, id string) error

	// Graph artifacts
	SaveGraph(ctx context.Context, runID string, g *model.Graph) error
	GetGraph(ctx context.Context, runID string) (*model.Graph, error)

	// Diagnostics
	SaveDiagnostics(ctx context.Context, runID string, diags []model.Diagnostic) error
	GetDiagnostics(ctx context.Context, runID string) ([]model.Diagnostic, error)

	// Study plans
	SavePlan(ctx context.Context, runID string, p *model.StudyPlan) error
	GetPlan(ctx context.Context, runID string) (*model.StudyPlan, error)
	DeletePlan(ctx context.Context, runID string) error

	// Aggregates
	GetStats(ctx context.Context) (*model.GraphStats, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}

// Package client provides a transport-agnostic interface for the syllabus
// service and an HTTP/JSON implementation that talks to the REST API.
package client

import (
	"context"

	"github.com/groblegark/syllabus/internal/document"
	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/plan"
)

// SyllabusClient is the interface that all CLI commands use to communicate
// with the syllabus server. It is implemented by HTTPClient (default) and
// can be backed by any transport.
type SyllabusClient interface {
	// Runs
	CreateRun(ctx context.Context, req *CreateRunRequest) (*CreateRunResponse, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, req *ListRunsRequest) (*ListRunsResponse, error)
	DeleteRun(ctx context.Context, id string) error

	// Run artifacts
	GetGraph(ctx context.Context, runID string) (*GraphResponse, error)
	GetDiagnostics(ctx context.Context, runID string) (*DiagnosticsResponse, error)
	GetPlan(ctx context.Context, runID string) (*model.StudyPlan, error)
	Replan(ctx context.Context, runID string, opts plan.Options) (*model.StudyPlan, error)
	DeletePlan(ctx context.Context, runID string) error

	// Aggregates
	GetStats(ctx context.Context) (*model.GraphStats, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateRunRequest holds parameters for submitting a document for ingestion.
type CreateRunRequest struct {
	Source    string           `json:"source,omitempty"`
	CreatedBy string           `json:"created_by,omitempty"`
	Events    []document.Event `json:"events"`
	Plan      *plan.Options    `json:"plan,omitempty"`
}

// CreateRunResponse is the response from CreateRun.
type CreateRunResponse struct {
	Run         *model.Run         `json:"run"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Plan        *model.StudyPlan   `json:"plan,omitempty"`
}

// ListRunsRequest holds parameters for listing runs.
type ListRunsRequest struct {
	Source    string `json:"source,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	Clean     *bool  `json:"clean,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// ListRunsResponse is the response from ListRuns.
type ListRunsResponse struct {
	Runs  []*model.Run `json:"runs"`
	Total int          `json:"total"`
}

// GraphResponse is the flattened graph returned by GetGraph, with nodes in
// document order.
type GraphResponse struct {
	Nodes []*model.Node `json:"nodes"`
	Edges []*model.Edge `json:"edges"`
}

// DiagnosticsResponse is the response from GetDiagnostics.
type DiagnosticsResponse struct {
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Total       int                `json:"total"`
}

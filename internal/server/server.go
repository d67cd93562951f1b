// Package server hosts the HTTP API over the run store and the ingestion
// pipeline.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/groblegark/syllabus/internal/document"
	"github.com/groblegark/syllabus/internal/engine"
	"github.com/groblegark/syllabus/internal/events"
	"github.com/groblegark/syllabus/internal/idgen"
	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/plan"
	"github.com/groblegark/syllabus/internal/resolve"
	"github.com/groblegark/syllabus/internal/store"
)

// SyllabusServer serves runs, graphs, diagnostics, and plans.
type SyllabusServer struct {
	store     store.Store
	publisher events.Publisher
}

// NewSyllabusServer returns a new SyllabusServer backed by the given store
// and publisher.
func NewSyllabusServer(s store.Store, p events.Publisher) *SyllabusServer {
	return &SyllabusServer{
		store:     s,
		publisher: p,
	}
}

// publish emits an event to the publisher. Best-effort; failures are logged
// but do not block the caller.
func (s *SyllabusServer) publish(ctx context.Context, topic, runID string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "run_id", runID, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// createRunInput is the request body for run creation.
type createRunInput struct {
	Source    string           `json:"source"`
	CreatedBy string           `json:"created_by"`
	Events    []document.Event `json:"events"`
	Plan      *plan.Options    `json:"plan,omitempty"`
}

// createRunResult bundles everything produced by one ingestion pass.
type createRunResult struct {
	Run         *model.Run         `json:"run"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Plan        *model.StudyPlan   `json:"plan,omitempty"`
}

// createRun runs the pipeline over the submitted events and persists the
// outcome atomically.
func (s *SyllabusServer) createRun(ctx context.Context, in createRunInput) (*createRunResult, error) {
	if len(in.Events) == 0 {
		return nil, inputError("events are required")
	}
	for i, ev := range in.Events {
		if !ev.Kind.IsValid() {
			return nil, inputError(fmt.Sprintf("invalid event kind at index %d: %s", i, ev.Kind))
		}
	}

	var opts engine.Options
	if in.Plan != nil {
		opts.Plan = in.Plan
	}

	res, err := engine.Run(in.Events, opts)
	if err != nil {
		// Builder, resolver, and planner failures are caused by the
		// submitted document or options, not by the service.
		var se *document.StructureError
		var ae *resolve.AmbiguousReferenceError
		var pe *plan.PlanningError
		if errors.As(err, &se) || errors.As(err, &ae) || errors.As(err, &pe) {
			return nil, inputError(err.Error())
		}
		return nil, err
	}

	// Field-level re-check of the produced graph before anything is
	// persisted. A failure here is a pipeline defect, not bad input.
	if err := validateGraph(res.Graph); err != nil {
		return nil, err
	}

	id, err := idgen.Generate()
	if err != nil {
		return nil, err
	}

	run := &model.Run{
		ID:           id,
		Source:       in.Source,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    in.CreatedBy,
		NodeCount:    res.Graph.Len(),
		EdgeCount:    len(res.Graph.Edges),
		ErrorCount:   res.Report.Errors(),
		WarningCount: res.Report.Warnings(),
		Clean:        res.Report.Clean,
		Planned:      res.Plan != nil,
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.CreateRun(ctx, run); err != nil {
			return err
		}
		if err := tx.SaveGraph(ctx, run.ID, res.Graph); err != nil {
			return err
		}
		if err := tx.SaveDiagnostics(ctx, run.ID, res.Report.Diagnostics); err != nil {
			return err
		}
		if res.Plan != nil {
			if err := tx.SavePlan(ctx, run.ID, res.Plan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicRunCreated, run.ID, events.RunCreated{Run: run})
	if res.Plan != nil {
		s.publish(ctx, events.TopicPlanComputed, run.ID, events.PlanComputed{RunID: run.ID, Plan: res.Plan})
	}

	return &createRunResult{
		Run:         run,
		Diagnostics: res.Report.Diagnostics,
		Plan:        res.Plan,
	}, nil
}

// validateGraph checks every node and edge against the model constraints.
func validateGraph(g *model.Graph) error {
	for _, id := range g.Order {
		if err := model.ValidateNode(g.Nodes[id]); err != nil {
			return fmt.Errorf("graph node %s: %w", id, err)
		}
	}
	for i, e := range g.Edges {
		if err := model.ValidateEdge(e); err != nil {
			return fmt.Errorf("graph edge %d: %w", i, err)
		}
	}
	return nil
}

// replanRun computes a fresh plan over a stored run's graph and replaces the
// stored plan.
func (s *SyllabusServer) replanRun(ctx context.Context, runID string, opts plan.Options) (*model.StudyPlan, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !run.Clean {
		return nil, inputError("run " + runID + " has validation errors; cannot plan")
	}

	g, err := s.store.GetGraph(ctx, runID)
	if err != nil {
		return nil, err
	}
	// Stored artifacts can predate the current constraints; refuse to plan
	// over a graph that no longer passes them.
	if err := validateGraph(g); err != nil {
		return nil, err
	}

	p, err := engine.Replan(g, opts)
	if err != nil {
		var pe *plan.PlanningError
		if errors.As(err, &pe) {
			return nil, inputError(err.Error())
		}
		return nil, err
	}

	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.SavePlan(ctx, runID, p); err != nil {
			return err
		}
		run.Planned = true
		return tx.UpdateRun(ctx, run)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicPlanComputed, runID, events.PlanComputed{RunID: runID, Plan: p})

	return p, nil
}

// deleteRun removes a run and all its associated data.
func (s *SyllabusServer) deleteRun(ctx context.Context, runID string) error {
	if err := s.store.DeleteRun(ctx, runID); err != nil {
		return err
	}
	s.publish(ctx, events.TopicRunDeleted, runID, events.RunDeleted{RunID: runID})
	return nil
}

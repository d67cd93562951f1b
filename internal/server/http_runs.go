package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/groblegark/syllabus/internal/model"
	"github.com/groblegark/syllabus/internal/plan"
	"github.com/groblegark/syllabus/internal/store"
)

// graphResponse flattens a stored graph into node and edge lists in
// document order.
type graphResponse struct {
	Nodes []*model.Node `json:"nodes"`
	Edges []*model.Edge `json:"edges"`
}

func toGraphResponse(g *model.Graph) *graphResponse {
	resp := &graphResponse{Nodes: make([]*model.Node, 0, g.Len()), Edges: g.Edges}
	for _, id := range g.Order {
		resp.Nodes = append(resp.Nodes, g.Nodes[id])
	}
	if resp.Edges == nil {
		resp.Edges = []*model.Edge{}
	}
	return resp
}

// handleCreateRun handles POST /v1/runs.
func (s *SyllabusServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var in createRunInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.createRun(r.Context(), in)
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusBadRequest, ie.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleListRuns handles GET /v1/runs.
func (s *SyllabusServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.RunFilter{
		Source:    q.Get("source"),
		CreatedBy: q.Get("created_by"),
		Sort:      q.Get("sort"),
	}

	if v := q.Get("clean"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Clean = &b
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	runs, total, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	// Ensure runs is never null in JSON output.
	if runs == nil {
		runs = []*model.Run{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": total,
	})
}

// handleGetRun handles GET /v1/runs/{id}.
func (s *SyllabusServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// handleDeleteRun handles DELETE /v1/runs/{id}.
func (s *SyllabusServer) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.deleteRun(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete run")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetGraph handles GET /v1/runs/{id}/graph.
func (s *SyllabusServer) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.store.GetGraph(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get graph")
		return
	}

	writeJSON(w, http.StatusOK, toGraphResponse(g))
}

// handleGetDiagnostics handles GET /v1/runs/{id}/diagnostics.
func (s *SyllabusServer) handleGetDiagnostics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// 404 for unknown runs; a known run with zero findings returns an
	// empty list.
	if _, err := s.store.GetRun(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	diags, err := s.store.GetDiagnostics(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get diagnostics")
		return
	}
	if diags == nil {
		diags = []model.Diagnostic{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"diagnostics": diags,
		"total":       len(diags),
	})
}

// handleGetPlan handles GET /v1/runs/{id}/plan.
func (s *SyllabusServer) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := s.store.GetPlan(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get plan")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleReplan handles POST /v1/runs/{id}/plan.
func (s *SyllabusServer) handleReplan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var opts plan.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := s.replanRun(r.Context(), id, opts)
	if err != nil {
		var ie inputError
		switch {
		case errors.As(err, &ie):
			writeError(w, http.StatusBadRequest, ie.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "run not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleDeletePlan handles DELETE /v1/runs/{id}/plan.
func (s *SyllabusServer) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	err = s.store.RunInTransaction(r.Context(), func(tx store.Store) error {
		if err := tx.DeletePlan(r.Context(), id); err != nil {
			return err
		}
		run.Planned = false
		return tx.UpdateRun(r.Context(), run)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetStats handles GET /v1/stats.
func (s *SyllabusServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

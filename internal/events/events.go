package events

import (
	"context"

	"github.com/groblegark/syllabus/internal/model"
)

// Event topic constants
const (
	TopicRunCreated   = "syllabus.run.created"
	TopicRunDeleted   = "syllabus.run.deleted"
	TopicPlanComputed = "syllabus.plan.computed"
)

// Event types

type RunCreated struct {
	Run *model.Run `json:"run"`
}

type RunDeleted struct {
	RunID string `json:"run_id"`
}

type PlanComputed struct {
	RunID string           `json:"run_id"`
	Plan  *model.StudyPlan `json:"plan"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

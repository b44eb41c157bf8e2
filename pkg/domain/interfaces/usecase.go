package interfaces

import (
	"context"

	"github.com/pipegate/pipegate/pkg/domain/model"
)

// GateUseCase defines the release-gate decision operations
type GateUseCase interface {
	// ShouldTrigger reports whether the event should start a pipeline run
	// at all, per the policy's branch and tag filters
	ShouldTrigger(event *model.TriggerEvent) bool

	// DecidePublish evaluates the full gate: whether a run starts and
	// whether a successful run publishes its artifacts
	DecidePublish(event *model.TriggerEvent) model.GateDecision

	// Evaluate produces the decision plus the job plan derived from it
	Evaluate(ctx context.Context, event *model.TriggerEvent) (model.GateDecision, model.JobPlan)
}

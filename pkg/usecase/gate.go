package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/pipegate/pipegate/pkg/domain/interfaces"
	"github.com/pipegate/pipegate/pkg/domain/model"
	"github.com/pipegate/pipegate/pkg/utils/async"
)

type gateUseCase struct {
	policy *model.GatePolicy
}

// NewGate creates a release gate evaluating events against policy
func NewGate(policy *model.GatePolicy) interfaces.GateUseCase {
	if policy == nil {
		policy = model.DefaultPolicy()
	}
	return &gateUseCase{policy: policy}
}

// ShouldTrigger classifies the event's ref as a branch or tag and matches
// its base name (last path segment) against the corresponding filter rule.
// Malformed refs are rejected, never an error.
func (uc *gateUseCase) ShouldTrigger(event *model.TriggerEvent) bool {
	filter, ok := uc.policy.FilterFor(event)
	if !ok {
		return false
	}
	return filter.Admit(event.BaseName())
}

// DecidePublish applies the release policy in order, first match wins:
//  1. pull requests never publish
//  2. the trunk branch builds and holds for manual promotion, never
//     publishes
//  3. anything else publishes, with an upload target only for tag builds
//
// Unrecognized build reasons run (if admitted) but fall through to the
// non-publishing path. The gate never fails: a decision is always produced.
func (uc *gateUseCase) DecidePublish(event *model.TriggerEvent) model.GateDecision {
	run := uc.ShouldTrigger(event)

	switch {
	case !run:
		return model.GateDecision{
			Reason: "ref rejected by filter rules",
		}

	case event.IsPullRequest():
		return model.GateDecision{
			ShouldRun: true,
			Reason:    "pull request builds are never published",
		}

	case uc.policy.IsDefaultBranch(event):
		return model.GateDecision{
			ShouldRun: true,
			Reason:    "trunk builds are held for manual promotion",
		}

	case event.Reason == model.ReasonUnknown:
		return model.GateDecision{
			ShouldRun: true,
			Reason:    "unknown trigger reason, run without publishing",
		}

	case event.IsTagBuild():
		return model.GateDecision{
			ShouldRun:     true,
			ShouldPublish: true,
			PublishTarget: uc.policy.PublishTarget,
			Reason:        "release tag build",
		}

	default:
		// non-trunk branch: artifacts are produced and archived without
		// an upload target
		return model.GateDecision{
			ShouldRun:     true,
			ShouldPublish: true,
			Reason:        "branch build, artifacts held without upload target",
		}
	}
}

// Evaluate produces the decision and the job plan the orchestrator should
// schedule for it. The evaluation itself is pure; this adds identity and
// logging around it.
func (uc *gateUseCase) Evaluate(ctx context.Context, event *model.TriggerEvent) (model.GateDecision, model.JobPlan) {
	decision := uc.DecidePublish(event)
	decision.ID = uuid.NewString()

	plan := uc.planJobs(decision)

	ctxlog.From(ctx).Info("Evaluated trigger event",
		"decision_id", decision.ID,
		"ref", event.SourceRef,
		"build_reason", event.Reason,
		"should_run", decision.ShouldRun,
		"should_publish", decision.ShouldPublish,
		"publish_target", decision.PublishTarget,
		"jobs", len(plan.Jobs),
	)

	// Per-job audit records go out off the caller's path so callers
	// (HTTP handlers in particular) return as soon as the decision exists
	async.Dispatch(ctx, func(ctx context.Context) error {
		logger := ctxlog.From(ctx)
		for _, job := range plan.Jobs {
			logger.Debug("Scheduled job",
				"decision_id", decision.ID,
				"kind", job.Kind,
				"name", job.Name,
				"platform", job.Platform,
				"version", job.Version,
				"target", job.Target,
			)
		}
		return nil
	})

	return decision, plan
}

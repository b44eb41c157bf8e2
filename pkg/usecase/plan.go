package usecase

import (
	"fmt"

	"github.com/pipegate/pipegate/pkg/domain/model"
)

// planJobs expands a decision into the jobs to schedule: one test job per
// matrix cell, a style-check job, and a publish job only when the decision
// publishes to a named target.
func (uc *gateUseCase) planJobs(decision model.GateDecision) model.JobPlan {
	plan := model.JobPlan{DecisionID: decision.ID}

	if !decision.ShouldRun {
		return plan
	}

	for _, entry := range uc.policy.Matrix {
		for _, version := range entry.Versions {
			plan.Jobs = append(plan.Jobs, model.Job{
				Kind:     model.JobKindTest,
				Name:     fmt.Sprintf("test-%s-%s", entry.Platform, version),
				Platform: entry.Platform,
				Version:  version,
			})
		}
	}

	if uc.policy.StyleCheck {
		plan.Jobs = append(plan.Jobs, model.Job{
			Kind: model.JobKindStyle,
			Name: "style-check",
		})
	}

	if decision.ShouldPublish && decision.PublishTarget != "" {
		plan.Jobs = append(plan.Jobs, model.Job{
			Kind:   model.JobKindPublish,
			Name:   "publish-" + decision.PublishTarget,
			Target: decision.PublishTarget,
		})
	}

	return plan
}

package model

// GateDecision is the output value of one gate evaluation, consumed by the
// orchestrator to select which downstream jobs to schedule.
type GateDecision struct {
	// ID correlates scheduled jobs back to this decision in orchestrator logs
	ID string `json:"id,omitempty"`

	ShouldRun     bool `json:"should_run"`
	ShouldPublish bool `json:"should_publish"`

	// PublishTarget names the artifact destination (e.g. a package index).
	// Set only when ShouldPublish is true and the build is a tag build;
	// a publishable non-tag build produces artifacts held without an
	// upload target.
	PublishTarget string `json:"publish_target,omitempty"`

	// Reason is a short human-readable explanation of the decision
	Reason string `json:"reason,omitempty"`
}

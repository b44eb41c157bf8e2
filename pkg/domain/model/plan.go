package model

// JobKind distinguishes the templated job definitions the orchestrator owns
type JobKind string

const (
	JobKindTest    JobKind = "test"
	JobKindStyle   JobKind = "style"
	JobKindPublish JobKind = "publish"
)

// Job is one downstream job the orchestrator should schedule. The job
// implementations themselves are external; this only names what to invoke.
type Job struct {
	Kind     JobKind `json:"kind"`
	Name     string  `json:"name"`
	Platform string  `json:"platform,omitempty"`
	Version  string  `json:"version,omitempty"`

	// Target is the publish destination, set on publish jobs only
	Target string `json:"target,omitempty"`
}

// JobPlan is the full set of jobs selected for one decision. Empty when the
// decision is not to run.
type JobPlan struct {
	DecisionID string `json:"decision_id,omitempty"`
	Jobs       []Job  `json:"jobs"`
}

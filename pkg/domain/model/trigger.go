package model

import (
	"path"

	"github.com/go-git/go-git/v5/plumbing"
)

// BuildReason classifies why a pipeline run was requested
type BuildReason string

const (
	ReasonManual       BuildReason = "manual"
	ReasonPullRequest  BuildReason = "pull_request"
	ReasonIndividualCI BuildReason = "individual_ci"
	ReasonSchedule     BuildReason = "schedule"
	ReasonUnknown      BuildReason = "unknown"
)

// ParseBuildReason maps a raw reason string to a BuildReason.
// Unrecognized values map to ReasonUnknown rather than erroring, so that
// new reasons introduced by an orchestrator degrade to the run-only path.
func ParseBuildReason(s string) BuildReason {
	switch BuildReason(s) {
	case ReasonManual, ReasonPullRequest, ReasonIndividualCI, ReasonSchedule:
		return BuildReason(s)
	default:
		return ReasonUnknown
	}
}

// RefKind is the classification of a source ref
type RefKind int

const (
	RefKindUnknown RefKind = iota
	RefKindBranch
	RefKindTag
)

// TriggerEvent describes one CI invocation. It is constructed fresh from
// orchestrator metadata per invocation and never mutated afterwards.
type TriggerEvent struct {
	// SourceRef is the full ref name, e.g. "refs/heads/main" or
	// "refs/tags/v1.2.0"
	SourceRef string `json:"ref"`

	// Reason is why this run was requested
	Reason BuildReason `json:"reason"`
}

// RefKind classifies SourceRef by its prefix. Anything that is neither a
// branch ref nor a tag ref is RefKindUnknown and will never be admitted.
func (e *TriggerEvent) RefKind() RefKind {
	name := plumbing.ReferenceName(e.SourceRef)
	switch {
	case name.IsBranch():
		return RefKindBranch
	case name.IsTag():
		return RefKindTag
	default:
		return RefKindUnknown
	}
}

// RefName returns the base name of the ref, "main" for "refs/heads/main".
// Returns "" for malformed refs.
func (e *TriggerEvent) RefName() string {
	if e.RefKind() == RefKindUnknown {
		return ""
	}
	return plumbing.ReferenceName(e.SourceRef).Short()
}

// BaseName returns the last path segment of the ref, the candidate string
// filter rules match against: "new-parser" for "refs/heads/feature/new-parser",
// "v1.2.0" for "refs/tags/v1.2.0". Returns "" for malformed refs.
func (e *TriggerEvent) BaseName() string {
	name := e.RefName()
	if name == "" {
		return ""
	}
	return path.Base(name)
}

// IsTagBuild reports whether this event was raised for a tag ref
func (e *TriggerEvent) IsTagBuild() bool {
	return e.RefKind() == RefKindTag
}

// IsPullRequest reports whether this event came from a pull request
func (e *TriggerEvent) IsPullRequest() bool {
	return e.Reason == ReasonPullRequest
}

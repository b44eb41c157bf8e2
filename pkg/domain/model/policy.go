package model

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// MatrixEntry is one cell of the static build matrix: a platform paired
// with the toolchain versions to test on it.
type MatrixEntry struct {
	Platform string   `toml:"platform" json:"platform"`
	Versions []string `toml:"versions" json:"versions"`
}

// GatePolicy is the static configuration evaluated against each
// TriggerEvent. It is loaded once at startup and never mutated.
type GatePolicy struct {
	// DefaultBranch is the trunk branch name. Builds on it are held for
	// manual promotion instead of published.
	DefaultBranch string `toml:"default_branch"`

	// PublishTarget is the package index tag builds publish to
	PublishTarget string `toml:"publish_target"`

	Branches FilterRule `toml:"branches"`
	Tags     FilterRule `toml:"tags"`

	// Matrix is the test matrix scheduled for every admitted build
	Matrix []MatrixEntry `toml:"matrix"`

	// StyleCheck schedules a style-check job alongside the matrix
	StyleCheck bool `toml:"style_check"`
}

// DefaultPolicy returns the built-in policy: build every branch except
// backports, publish only from release tags, skip dev/pre/post tags.
func DefaultPolicy() *GatePolicy {
	return &GatePolicy{
		DefaultBranch: "main",
		PublishTarget: "pypi",
		Branches: FilterRule{
			Include: []string{"*"},
			Exclude: []string{"*backport*"},
		},
		Tags: FilterRule{
			Include: []string{"v*"},
			Exclude: []string{"*dev*", "*pre*", "*post*"},
		},
		Matrix: []MatrixEntry{
			{Platform: "linux", Versions: []string{"3.11", "3.12", "3.13"}},
			{Platform: "macos", Versions: []string{"3.12"}},
			{Platform: "windows", Versions: []string{"3.12"}},
		},
		StyleCheck: true,
	}
}

// LoadPolicy reads a TOML policy file. Fields omitted from the file keep
// the default policy's values.
func LoadPolicy(path string) (*GatePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", path))
	}

	policy := DefaultPolicy()
	if err := toml.Unmarshal(data, policy); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", path))
	}

	return policy, nil
}

// IsDefaultBranch reports whether the event's ref is the trunk branch
func (p *GatePolicy) IsDefaultBranch(event *TriggerEvent) bool {
	return event.RefKind() == RefKindBranch && event.RefName() == p.DefaultBranch
}

// FilterFor returns the filter rule matching the event's ref kind. The
// second return value is false for malformed refs.
func (p *GatePolicy) FilterFor(event *TriggerEvent) (FilterRule, bool) {
	switch event.RefKind() {
	case RefKindBranch:
		return p.Branches, true
	case RefKindTag:
		return p.Tags, true
	default:
		return FilterRule{}, false
	}
}

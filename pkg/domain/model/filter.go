package model

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterRule is an ordered pair of glob pattern sets applied to ref base
// names. Include is a strict allow-list; exclude takes precedence when both
// match the same candidate.
type FilterRule struct {
	Include []string `json:"include" toml:"include"`
	Exclude []string `json:"exclude" toml:"exclude"`
}

// Admit reports whether name matches at least one include pattern and no
// exclude pattern. Matching is case-sensitive and anchored to the full
// name; "*" matches any run of characters including none. An empty name
// never matches.
func (f FilterRule) Admit(name string) bool {
	if name == "" {
		return false
	}
	if !matchAny(f.Include, name) {
		return false
	}
	return !matchAny(f.Exclude, name)
}

func matchAny(patterns []string, candidate string) bool {
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		matched, err := doublestar.Match(p, candidate)
		if err != nil {
			// malformed pattern, treat as non-matching
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

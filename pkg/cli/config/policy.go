package config

import (
	"github.com/pipegate/pipegate/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Policy holds gate policy configuration
type Policy struct {
	Path          string
	DefaultBranch string
	PublishTarget string
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for policy configuration
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Path to TOML policy file (built-in defaults when omitted)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("PIPEGATE_POLICY"),
		},
		&cli.StringFlag{
			Name:        "default-branch",
			Usage:       "Trunk branch name, builds on it are held for manual promotion",
			Destination: &c.DefaultBranch,
			Sources:     cli.EnvVars("PIPEGATE_DEFAULT_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "publish-target",
			Usage:       "Package index tag builds publish to",
			Destination: &c.PublishTarget,
			Sources:     cli.EnvVars("PIPEGATE_PUBLISH_TARGET"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("PIPEGATE_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// Load materializes the gate policy: the policy file if given, built-in
// defaults otherwise, with flag overrides applied on top.
func (c *Policy) Load() (*model.GatePolicy, error) {
	policy := model.DefaultPolicy()

	if c.Path != "" {
		loaded, err := model.LoadPolicy(c.Path)
		if err != nil {
			return nil, err
		}
		policy = loaded
	}

	if c.DefaultBranch != "" {
		policy.DefaultBranch = c.DefaultBranch
	}
	if c.PublishTarget != "" {
		policy.PublishTarget = c.PublishTarget
	}

	return policy, nil
}

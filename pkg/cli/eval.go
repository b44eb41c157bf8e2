package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pipegate/pipegate/pkg/cli/config"
	"github.com/pipegate/pipegate/pkg/domain/model"
	"github.com/pipegate/pipegate/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdEval() *cli.Command {
	var (
		policyCfg config.Policy
		ref       string
		reason    string
		asJSON    bool
		check     bool
	)

	flags := append(policyCfg.Flags(),
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Full source ref, e.g. refs/heads/main or refs/tags/v1.2.0",
			Required:    true,
			Destination: &ref,
			Sources:     cli.EnvVars("PIPEGATE_REF"),
		},
		&cli.StringFlag{
			Name:        "reason",
			Usage:       "Build trigger reason (manual, pull_request, individual_ci, schedule)",
			Value:       string(model.ReasonManual),
			Destination: &reason,
			Sources:     cli.EnvVars("PIPEGATE_REASON"),
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Emit the decision and plan as JSON",
			Destination: &asJSON,
		},
		&cli.BoolFlag{
			Name:        "check",
			Usage:       "Exit with code 1 when the decision is not to run",
			Destination: &check,
		},
	)

	return &cli.Command{
		Name:    "eval",
		Aliases: []string{"e"},
		Usage:   "Evaluate one trigger event and print the gate decision",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			policy, err := policyCfg.Load()
			if err != nil {
				return err
			}

			event := &model.TriggerEvent{
				SourceRef: ref,
				Reason:    model.ParseBuildReason(reason),
			}

			gateUC := usecase.NewGate(policy)
			decision, plan := gateUC.Evaluate(ctx, event)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{
					"decision": decision,
					"plan":     plan,
				}); err != nil {
					return err
				}
			} else {
				printDecision(event, decision, plan)
			}

			if check && !decision.ShouldRun {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func printDecision(event *model.TriggerEvent, decision model.GateDecision, plan model.JobPlan) {
	runLabel := color.RedString("SKIP")
	if decision.ShouldRun {
		runLabel = color.GreenString("RUN")
	}
	publishLabel := color.New(color.Faint).Sprint("hold")
	if decision.ShouldPublish {
		if decision.PublishTarget != "" {
			publishLabel = color.GreenString("publish to %s", decision.PublishTarget)
		} else {
			publishLabel = color.YellowString("publish (no target, archived)")
		}
	}

	fmt.Printf("%s  %s (%s)\n", runLabel, event.SourceRef, event.Reason)
	fmt.Printf("     artifacts: %s\n", publishLabel)
	fmt.Printf("     reason:    %s\n", decision.Reason)
	for _, job := range plan.Jobs {
		fmt.Printf("     job:       %s\n", job.Name)
	}
}

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/flow"
	"github.com/spf13/cobra"
)

type assessmentResult struct {
	NextStep domain.Step        `json:"next_step"`
	Data     domain.SessionData `json:"session_data"`
}

// newAssessCmd runs one flow decision against an empty session, optionally
// seeded with an expected mastery level.
func newAssessCmd(c *cli) *cobra.Command {
	var expected string
	machine := flow.NewMachine()

	seed := func() (domain.SessionData, error) {
		var data domain.SessionData
		if expected == "" {
			return data, nil
		}
		level := domain.MasteryLevel(expected)
		if err := level.Validate(); err != nil {
			return data, err
		}
		data.ExpectedMasteryLevel = &level
		return data, nil
	}

	decide := func(decision func(domain.SessionData, string) (flow.Transition, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			data, err := seed()
			if err != nil {
				return err
			}
			tr, err := decision(data, args[0])
			if err != nil {
				return err
			}
			c.logger.Debug("flow decision", "next_step", tr.Next.String())

			res := assessmentResult{NextStep: tr.Next, Data: tr.Data}
			return c.emit(res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "next step:", res.NextStep)
				return err
			})
		}
	}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Show where an assessment moves the learning flow",
	}
	cmd.PersistentFlags().StringVarP(&expected, "expected", "e", "",
		"Expected mastery level (default expectation applies when empty)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "jol <level>",
			Short: "Judgment of learning: 完全记得住, 大部分记得住, 记不太住 or 完全不记得",
			Args:  cobra.ExactArgs(1),
			RunE: decide(func(d domain.SessionData, arg string) (flow.Transition, error) {
				return machine.ProcessJOL(d, domain.JOLLevel(arg))
			}),
		},
		&cobra.Command{
			Use:   "fok <level>",
			Short: "Feeling of knowing: 吃透, 能了解, 能了解一点点 or 啃不下来",
			Args:  cobra.ExactArgs(1),
			RunE: decide(func(d domain.SessionData, arg string) (flow.Transition, error) {
				return machine.ProcessFOK(d, domain.FOKLevel(arg))
			}),
		},
		&cobra.Command{
			Use:   "confidence <level>",
			Short: "Confidence in finishing the task",
			Args:  cobra.ExactArgs(1),
			RunE: decide(func(d domain.SessionData, arg string) (flow.Transition, error) {
				return machine.ProcessConfidence(d, domain.ConfidenceLevel(arg))
			}),
		},
		&cobra.Command{
			Use:   "time <allocation>",
			Short: "Study block: 20min, 30min, 1h or 更长时间",
			Args:  cobra.ExactArgs(1),
			RunE: decide(func(d domain.SessionData, arg string) (flow.Transition, error) {
				return machine.ProcessTimeAllocation(d, domain.TimeAllocation(arg))
			}),
		},
		&cobra.Command{
			Use:   "obstacle <true|false>",
			Short: "Whether the learner hit an obstacle",
			Args:  cobra.ExactArgs(1),
			RunE: decide(func(d domain.SessionData, arg string) (flow.Transition, error) {
				hasObstacle, err := strconv.ParseBool(arg)
				if err != nil {
					return flow.Transition{}, fmt.Errorf("invalid obstacle value %q: %w", arg, err)
				}
				return machine.ProcessObstacle(d, hasObstacle), nil
			}),
		},
	)
	return cmd
}

package main

import (
	"fmt"
	"io"

	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/subtask"
	"github.com/spf13/cobra"
)

type contextualPlan struct {
	Domain   subtask.ProblemDomain `json:"domain"`
	SubTasks []domain.SubTask      `json:"sub_tasks"`
}

func newSubtasksCmd(c *cli) *cobra.Command {
	var source, target, relationship string

	cmd := &cobra.Command{
		Use:   "subtasks",
		Short: "Plan the three sub-tasks for a cognitive-map edge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := c.generator.Generate(source, target, domain.RelationshipType(relationship), "")
			if err != nil {
				return err
			}
			return c.emit(tasks, func(w io.Writer) error { return writeTasks(w, tasks) })
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Source concept")
	cmd.Flags().StringVar(&target, "target", "", "Target concept")
	cmd.Flags().StringVarP(&relationship, "relationship", "r", string(domain.RelationshipChild),
		"Relationship: 上级, 下级, 并列 or 相关")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newContextualCmd(c *cli) *cobra.Command {
	var path []string

	cmd := &cobra.Command{
		Use:   "contextual [problem statement...]",
		Short: "Plan sub-tasks from a problem statement alone",
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			plan := contextualPlan{
				Domain:   subtask.Classify(problem),
				SubTasks: c.generator.GenerateContextual(problem, path),
			}
			return c.emit(plan, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "domain: %s\n", plan.Domain); err != nil {
					return err
				}
				return writeTasks(w, plan.SubTasks)
			})
		},
	}

	cmd.Flags().StringSliceVar(&path, "path", nil, "Concepts along the selected path")
	return cmd
}

func writeTasks(w io.Writer, tasks []domain.SubTask) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n", t.Order, t.Name, t.Description); err != nil {
			return err
		}
	}
	return nil
}

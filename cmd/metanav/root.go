package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/metanav/internal/config"
	"github.com/phrazzld/metanav/internal/keyword"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/subtask"
	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// cli carries the state shared by every subcommand.
type cli struct {
	out      io.Writer
	errOut   io.Writer
	text     bool
	logLevel string

	logger    *slog.Logger
	extractor *keyword.Extractor
	generator subtask.Generator
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{
		out:       out,
		errOut:    errOut,
		extractor: keyword.NewDefault(),
		generator: subtask.NewGenerator(),
	}

	root := &cobra.Command{
		Use:   "metanav",
		Short: "Metacognitive learning helper",
		Long: `metanav - offline tools of the metacognitive learning flow

  metanav keywords "我想学习Python数据分析"          # extract keywords
  metanav phrases -n 3 < notes.txt                    # frequent phrases
  metanav subtasks --source 微积分 --target 导数 --relationship 下级
  metanav contextual "学习二次函数"                   # plan without a map
  metanav assess --expected 语义级别的公式推导 jol 记不太住

Output is JSON unless --text is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: c.logLevel}, c.errOut)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			c.logger = l.With(slog.String("command", cmd.Name()))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().BoolVar(&c.text, "text", false, "Human-readable text output (default is JSON)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	root.AddCommand(
		newKeywordsCmd(c),
		newPhrasesCmd(c),
		newSubtasksCmd(c),
		newContextualCmd(c),
		newAssessCmd(c),
		newVersionCmd(c),
	)
	return root
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out, "metanav", version)
			return err
		},
	}
}

// emit writes v as indented JSON, or through text when --text is set.
func (c *cli) emit(v any, text func(w io.Writer) error) error {
	if c.text {
		return text(c.out)
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

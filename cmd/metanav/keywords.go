package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// Extraction modes.
const (
	modeKeywords = "keywords"
	modeWeighted = "weighted"
	modePhrases  = "phrases"
)

type weightedTerm struct {
	Keyword string  `json:"keyword"`
	Weight  float64 `json:"weight"`
}

func newKeywordsCmd(c *cli) *cobra.Command {
	var (
		limit int
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "keywords [text...]",
		Short: "Extract keywords from text (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if limit < 0 {
				return fmt.Errorf("--max cannot be negative")
			}

			c.logger.Debug("extracting keywords", "mode", mode, "limit", limit)

			switch mode {
			case modeKeywords:
				return c.emitList(c.extractor.Extract(text, limit))
			case modePhrases:
				return c.emitList(c.extractor.ExtractPhrases(text, limit))
			case modeWeighted:
				terms := c.extractor.ExtractWeighted(text, limit)
				out := make([]weightedTerm, len(terms))
				for i, t := range terms {
					out[i] = weightedTerm{Keyword: t.Term, Weight: t.Weight}
				}
				return c.emit(out, func(w io.Writer) error {
					for _, t := range out {
						if _, err := fmt.Fprintf(w, "%s\t%.4f\n", t.Keyword, t.Weight); err != nil {
							return err
						}
					}
					return nil
				})
			default:
				return fmt.Errorf("unknown mode %q (want %s, %s or %s)", mode, modeKeywords, modeWeighted, modePhrases)
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "max", "n", 0, "Maximum number of results (0 uses the default)")
	cmd.Flags().StringVarP(&mode, "mode", "m", modeKeywords, "Extraction mode: keywords, weighted or phrases")
	return cmd
}

// newPhrasesCmd is shorthand for keywords --mode phrases.
func newPhrasesCmd(c *cli) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "phrases [text...]",
		Short: "Extract frequent 2- and 3-word phrases",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return c.emitList(c.extractor.ExtractPhrases(text, limit))
		},
	}

	cmd.Flags().IntVarP(&limit, "max", "n", 0, "Maximum number of phrases (0 uses the default)")
	return cmd
}

func (c *cli) emitList(items []string) error {
	return c.emit(items, func(w io.Writer) error {
		for _, item := range items {
			if _, err := fmt.Fprintln(w, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// inputText joins args, falling back to all of r.
func inputText(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(raw), nil
}

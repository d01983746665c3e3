package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummarizeCmd(configPath *string) *cobra.Command {
	var (
		model string
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [text...]",
		Short: "Condense a text into a dense summary",
		Long:  "Summarize text from the arguments, or from stdin when none are given. Texts under 60 words come back unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !stats {
				fmt.Fprintln(out, a.summarizer.Summarize(cmd.Context(), text, a.model(model)))
				return nil
			}
			res := a.summarizer.Optimize(cmd.Context(), text, a.model(model))
			fmt.Fprintln(out, res.Summary)
			fmt.Fprintf(out, "\ntokens: %d -> %d (saved %d)\n",
				res.OriginalTokenCount, res.SummaryTokenCount, res.TokensSaved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (default from config)")
	cmd.Flags().BoolVarP(&stats, "stats", "s", false, "also report token counts before and after")
	return cmd
}

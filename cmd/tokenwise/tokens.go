package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tokenwise/tokenwise/pkg/mcp"
	"github.com/tokenwise/tokenwise/pkg/models"
)

func newTokensCmd(configPath *string) *cobra.Command {
	var (
		model        string
		detailed     bool
		outputTokens int
		currency     string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "tokens [text...]",
		Short: "Count tokens of a text and estimate its cost",
		Long:  "Count tokens with the model's tokenizer. Text is taken from the arguments, or from stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			a, err := loadApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}

			est, err := a.counter.Estimate(cmd.Context(), text, a.model(model), outputTokens, detailed, currency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(models.NewTokenizeResponse(est, detailed))
			}
			fmt.Fprint(out, mcp.FormatEstimate(est))
			if detailed {
				writeBreakdown(out, est.Tokens.Breakdown)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (default from config)")
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "show the illustrative word/punctuation breakdown")
	cmd.Flags().IntVarP(&outputTokens, "output-tokens", "o", 0, "expected output tokens to include in the estimate")
	cmd.Flags().StringVar(&currency, "currency", "", "also show the total in this currency (e.g. INR)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func writeBreakdown(w io.Writer, parts []string) {
	fmt.Fprintf(w, "\nBreakdown (%s):\n", models.BreakdownNote)
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

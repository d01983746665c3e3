package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tokenwise/tokenwise/pkg/mcp"
	"github.com/tokenwise/tokenwise/pkg/models"
	"github.com/tokenwise/tokenwise/pkg/pricing"
)

func newCostCmd(configPath *string) *cobra.Command {
	var (
		model    string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "cost <input-tokens> [output-tokens]",
		Short: "Estimate the cost of a request from token counts (offline)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts := make([]int, 2)
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid token count %q: %w", arg, err)
				}
				counts[i] = n
			}

			a, err := loadApp(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}

			name := a.model(model)
			entry, err := a.calc.Table().Lookup(name)
			if err != nil {
				return err
			}
			cost, err := pricing.EntryCost(entry, counts[0], counts[1])
			if err != nil {
				return err
			}

			est := models.Estimate{Model: name, Provider: entry.Provider, Cost: cost}
			if currency != "" {
				conv, err := a.calc.Convert(cost.TotalCostUSD, currency)
				if err != nil {
					return err
				}
				est.Converted = &conv
			}
			fmt.Fprint(cmd.OutOrStdout(), mcp.FormatEstimate(est))
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (default from config)")
	cmd.Flags().StringVar(&currency, "currency", "", "also show the total in this currency (e.g. INR)")
	return cmd
}

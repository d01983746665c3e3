package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models in the price list",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), *configPath, false)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPROVIDER\tUNIT\tINPUT\tOUTPUT\tCONTEXT\tAVAILABLE")
			for _, e := range a.calc.Table().Entries() {
				available := "no"
				if a.router.Implemented(e.Provider) {
					available = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					e.Model, e.Provider, e.Unit, e.Input.String(), e.Output.String(), e.ContextWindow, available)
			}
			return w.Flush()
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tokenwise",
		Short:         "Token counting, cost estimation and summarization for Gemini models",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("TOKENWISE_CONFIG"), "path to config file (optional)")

	root.AddCommand(
		newServeCmd(&configPath),
		newTokensCmd(&configPath),
		newCostCmd(&configPath),
		newSummarizeCmd(&configPath),
		newChatCmd(&configPath),
		newModelsCmd(&configPath),
		newMCPCmd(&configPath),
	)
	return root
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tokenwise/tokenwise/pkg/mcp"
)

func newMCPCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start tokenwise as an MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx, *configPath, true)
			if err != nil {
				return err
			}

			srv := mcp.New(mcp.Deps{
				Router:       a.router,
				Calculator:   a.calc,
				Counter:      a.counter,
				Summarizer:   a.summarizer,
				Responder:    a.responder,
				DefaultModel: a.cfg.DefaultModel,
			}, version)
			return srv.Run(ctx, os.Stdin, os.Stdout)
		},
	}
}

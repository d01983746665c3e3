package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tokenwise/tokenwise/pkg/models"
)

func newChatCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the persona model; one message per line, \"exit\" to quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), *configPath, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			var history []models.ChatMessage

			fmt.Fprintf(out, "chatting with %s\n> ", a.responder.Model())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "exit" || line == "quit" {
					break
				}
				if line == "" {
					fmt.Fprint(out, "> ")
					continue
				}

				history = append(history, models.ChatMessage{Role: models.RoleUser, Content: line})
				reply, err := a.responder.Respond(cmd.Context(), history)
				if err != nil {
					// Drop the unanswered turn so the next attempt starts clean.
					history = history[:len(history)-1]
					if errors.Is(err, models.ErrInvalidInput) {
						return err
					}
					fmt.Fprintf(out, "error: %v\n> ", err)
					continue
				}
				history = append(history, models.ChatMessage{Role: models.RoleModel, Content: reply})
				fmt.Fprintf(out, "%s\n> ", reply)
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
}

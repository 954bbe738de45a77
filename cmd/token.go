package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/intakebot/internal/ports"
)

func newTokenCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored Telegram bot token",
	}

	cmd.AddCommand(newTokenSetCmd(app), newTokenClearCmd(app))

	return cmd
}

func newTokenSetCmd(app *app) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the bot token (reads stdin when --value is omitted)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := strings.TrimSpace(value)
			if token == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return errors.New("token is empty")
			}

			if err := app.secrets.Put(cmd.Context(), ports.BotTokenKey, token); err != nil {
				return fmt.Errorf("store bot token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "token stored")
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Bot token")

	return cmd
}

func newTokenClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored bot token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secrets.Delete(cmd.Context(), ports.BotTokenKey); err != nil {
				return fmt.Errorf("remove bot token: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "token removed")
			return err
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemindCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send the reminder to every known user once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repos, err := app.repositories()
			if err != nil {
				return err
			}
			transport, err := app.transport(cmd.Context())
			if err != nil {
				return err
			}

			report, err := app.service(repos, transport).Remind(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sent: %d\nremoved: %d\nfailed: %d\n", report.Sent, len(report.Removed), report.Failed)
			return err
		},
	}
}

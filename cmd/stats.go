package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	statsrender "github.com/bnema/intakebot/internal/adapters/render/stats"
	"github.com/bnema/intakebot/internal/application"
)

func newStatsCmd(app *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show this week's published notices against the quotas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repos, err := app.repositories()
			if err != nil {
				return err
			}

			stats, err := app.service(repos, nil).WeeklyStats(cmd.Context())
			if err != nil {
				return err
			}

			output := application.FormatWeeklyStats(stats)
			if !plain {
				output, err = statsrender.Render(stats)
				if err != nil {
					return fmt.Errorf("render stats: %w", err)
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the same text the manager gets in chat")

	return cmd
}

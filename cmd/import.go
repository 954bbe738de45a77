package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/intakebot/internal/adapters/csvimport"
)

func newImportCmd(app *app) *cobra.Command {
	var overwriteText bool

	cmd := &cobra.Command{
		Use:   "import <decisions.csv>",
		Short: "Seed the decision registry from a semicolon separated CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := csvimport.ReadFile(args[0])
			if err != nil {
				return err
			}
			if rows.Skipped > 0 {
				app.logger.Warn("skipped invalid csv rows", zap.Int("skipped", rows.Skipped))
			}

			repos, err := app.repositories()
			if err != nil {
				return err
			}

			result, err := app.service(repos, nil).ImportDecisions(cmd.Context(), rows.Decisions, overwriteText)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created: %d\nupdated: %d\nunchanged: %d\nskipped: %d\n",
				result.Created, result.Updated, result.Unchanged, rows.Skipped)
			return err
		},
	}

	cmd.Flags().BoolVar(&overwriteText, "overwrite-text", false, "Replace canonical text of decisions that already have one")

	return cmd
}

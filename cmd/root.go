package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/intakebot/internal/config"
)

func Execute() error {
	rootCmd, app := newRootCmd()
	defer app.close()

	return rootCmd.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "intakebot",
		Short:         "Telegram intake bot for extremist materials notices",
		Long:          "intakebot walks chat users through submitting a link, a decision number and a qualifier, then publishes the composed notice to the broadcast channel and reminds known users every day.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.init()
		},
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newRemindCmd(app),
		newImportCmd(app),
		newStatsCmd(app),
		newTokenCmd(app),
	)

	return rootCmd, app
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.Level)

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	return logger, nil
}

// cronLogger routes scheduler events into zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

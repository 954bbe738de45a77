package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/intakebot/internal/application"
)

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot: long-poll Telegram and send scheduled reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repos, err := app.repositories()
			if err != nil {
				return err
			}
			transport, err := app.transport(ctx)
			if err != nil {
				return err
			}
			service := app.service(repos, transport)

			scheduler, err := startReminderSchedule(ctx, app, service)
			if err != nil {
				return err
			}
			defer func() {
				<-scheduler.Stop().Done()
				service.Wait()
			}()

			app.logger.Info("bot started",
				zap.String("storage", app.cfg.Storage.Backend),
				zap.String("reminder_schedule", app.cfg.Reminder.Schedule),
				zap.String("reminder_timezone", app.cfg.Reminder.Location.String()))

			return transport.Listen(ctx, service.OnMessage)
		},
	}
}

func startReminderSchedule(ctx context.Context, app *app, service *application.Service) (*cron.Cron, error) {
	logger := cronLogger{logger: app.logger.Named("cron").Sugar()}
	scheduler := cron.New(
		cron.WithLocation(app.cfg.Reminder.Location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := scheduler.AddFunc(app.cfg.Reminder.Schedule, func() {
		service.OnReminderTick(context.WithoutCancel(ctx))
	}); err != nil {
		return nil, fmt.Errorf("schedule reminder: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

package application

import (
	"context"
	"errors"
	"strings"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"go.uber.org/zap"
)

// OnMessage handles one inbound chat message and delivers the replies to the sender.
// Persistence failures are already answered with the retry message and are not returned.
func (s *Service) OnMessage(ctx context.Context, userID domain.UserID, text string) error {
	replies, err := s.dispatch(ctx, userID, text)
	if err != nil && !errors.Is(err, ErrPersistence) {
		return err
	}

	for _, reply := range replies {
		opts := ports.SendOptions{Buttons: reply.Buttons}
		if sendErr := s.transport.SendToUser(ctx, userID, reply.Text, opts); sendErr != nil {
			s.logger.Warn("reply delivery failed",
				zap.Int64("user_id", int64(userID)),
				zap.Bool("unreachable", domain.IsUnreachable(sendErr)),
				zap.Error(sendErr))
			return sendErr
		}
	}

	return nil
}

// OnReminderTick is the scheduler entry point.
func (s *Service) OnReminderTick(ctx context.Context) {
	if _, err := s.Remind(ctx); err != nil {
		s.logger.Error("reminder tick failed", zap.Error(err))
	}
}

func (s *Service) dispatch(ctx context.Context, userID domain.UserID, text string) ([]Reply, error) {
	command, ok := parseCommand(strings.TrimSpace(text))
	if !ok {
		return s.HandleMessage(ctx, userID, text)
	}

	switch command {
	case CommandTestReminder:
		if !s.isManager(userID) {
			return []Reply{{Text: textNotAllowed}}, nil
		}
		s.RemindAsync(context.WithoutCancel(ctx), userID)
		return []Reply{{Text: textReminderStarted}}, nil
	case CommandStats:
		if !s.isManager(userID) {
			return []Reply{{Text: textNotAllowed}}, nil
		}
		stats, err := s.WeeklyStats(ctx)
		if err != nil {
			return []Reply{{Text: textRetryLater}}, errors.Join(ErrPersistence, err)
		}
		return []Reply{{Text: textWeeklyStats(stats)}}, nil
	default:
		return s.HandleMessage(ctx, userID, text)
	}
}

func (s *Service) isManager(userID domain.UserID) bool {
	return s.cfg.ManagerID != 0 && userID == s.cfg.ManagerID
}

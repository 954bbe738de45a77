package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReminderReport summarizes one reminder tick.
type ReminderReport struct {
	Sent    int
	Removed []domain.UserID
	Failed  int
}

// Remind sends the reminder to every known user. Users reported as permanently
// unreachable are removed from the known users set; other failures are only counted.
// It does not hold the conversation lock while sending.
func (s *Service) Remind(ctx context.Context) (ReminderReport, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return ReminderReport{}, fmt.Errorf("list known users: %w", err)
	}

	var (
		mu     sync.Mutex
		report ReminderReport
	)

	var g errgroup.Group
	g.SetLimit(s.cfg.ReminderConcurrency)

	for _, id := range users {
		id := id // per-iteration copy; module targets go 1.21 loop semantics
		g.Go(func() error {
			sendErr := s.transport.SendToUser(ctx, id, textReminder, ports.SendOptions{})
			if sendErr == nil {
				mu.Lock()
				report.Sent++
				mu.Unlock()
				return nil
			}

			if !domain.IsUnreachable(sendErr) {
				s.logger.Warn("reminder delivery failed",
					zap.Int64("user_id", int64(id)),
					zap.Error(sendErr))
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}

			if err := s.forgetUser(ctx, id); err != nil {
				return fmt.Errorf("remove unreachable user %s: %w", id, err)
			}
			s.logger.Info("removed unreachable user", zap.Int64("user_id", int64(id)))
			mu.Lock()
			report.Removed = append(report.Removed, id)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("remind: %w", errors.Join(ErrPersistence, err))
	}

	s.logger.Info("reminder tick finished",
		zap.Int("sent", report.Sent),
		zap.Int("removed", len(report.Removed)),
		zap.Int("failed", report.Failed))

	return report, nil
}

// RemindAsync runs Remind in the background and reports the outcome to the manager.
func (s *Service) RemindAsync(ctx context.Context, notify domain.UserID) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		report, err := s.Remind(ctx)
		if err != nil {
			s.logger.Error("reminder tick failed", zap.Error(err))
		}
		if notify == 0 {
			return
		}
		if err := s.transport.SendToUser(ctx, notify, textReminderReport(report), ports.SendOptions{}); err != nil {
			s.logger.Warn("send reminder report", zap.Int64("user_id", int64(notify)), zap.Error(err))
		}
	}()
}

// forgetUser removes a user from the known users set under the conversation lock.
func (s *Service) forgetUser(ctx context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repos.Users.Remove(ctx, id)
}

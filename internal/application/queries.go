package application

import (
	"context"
	"fmt"

	"github.com/bnema/intakebot/internal/domain"
)

type WeeklyStats struct {
	Tally domain.WeeklyTally
	Quota domain.Quota
}

// WeeklyStats returns published notice counts for the week containing the current time.
func (s *Service) WeeklyStats(ctx context.Context) (WeeklyStats, error) {
	week := domain.WeekOf(s.clock.Now())
	if s.repos.Stats == nil {
		return WeeklyStats{Tally: domain.WeeklyTally{Week: week}, Quota: s.cfg.Quota}, nil
	}

	tally, err := s.repos.Stats.GetWeek(ctx, week)
	if err != nil {
		return WeeklyStats{}, fmt.Errorf("get weekly stats: %w", err)
	}

	return WeeklyStats{Tally: tally, Quota: s.cfg.Quota}, nil
}

// FormatWeeklyStats renders stats the way the manager sees them in chat.
func FormatWeeklyStats(stats WeeklyStats) string {
	return textWeeklyStats(stats)
}

// FormatReminderReport renders a reminder tick summary.
func FormatReminderReport(report ReminderReport) string {
	return textReminderReport(report)
}

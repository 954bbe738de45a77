package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports/mocks"
)

func TestWeeklyStatsUsesCurrentISOWeek(t *testing.T) {
	f := newFixture(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)).Once()

	_, err := f.stats.Increment(context.Background(), "2026-W42", 5)
	require.NoError(t, err)
	_, err = f.stats.Increment(context.Background(), "2026-W41", 5)
	require.NoError(t, err)

	service := NewService(Repositories{Stats: f.stats}, nil, clock, nil, Config{Quota: domain.Quota{UserWeekly: 6, TotalWeekly: 36}})
	stats, err := service.WeeklyStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.WeekKey("2026-W42"), stats.Tally.Week)
	assert.Equal(t, 1, stats.Tally.Total())
	assert.Equal(t, "Неделя 2026-W42: отправлено 1 из 36.\n5: 1 из 6", FormatWeeklyStats(stats))
}

func TestFormatReminderReport(t *testing.T) {
	report := ReminderReport{Sent: 3, Removed: []domain.UserID{7}, Failed: 1}
	assert.Equal(t, "Напоминание отправлено: 3, удалено недоступных: 1, ошибок: 1.", FormatReminderReport(report))
}

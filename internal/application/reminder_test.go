package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func addKnownUsers(t *testing.T, f *fixture, ids ...domain.UserID) {
	t.Helper()
	for _, id := range ids {
		_, err := f.users.Add(context.Background(), id)
		require.NoError(t, err)
	}
}

func TestRemindRemovesUnreachableUsers(t *testing.T) {
	f := newFixture(t)
	addKnownUsers(t, f, 10, 20)

	f.transport.EXPECT().SendToUser(mock.Anything, domain.UserID(10), textReminder, ports.SendOptions{}).Return(nil).Once()
	f.transport.EXPECT().SendToUser(mock.Anything, domain.UserID(20), textReminder, ports.SendOptions{}).
		Return(domain.NewDeliveryError(domain.DeliveryUnreachable, errors.New("Forbidden: bot was blocked by the user"))).Once()

	report, err := f.service.Remind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, []domain.UserID{20}, report.Removed)
	assert.Zero(t, report.Failed)

	known, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{10}, known)
	assert.Equal(t, 1, f.logs.FilterMessage("removed unreachable user").Len())
}

func TestRemindKeepsUsersOnTransientFailure(t *testing.T) {
	f := newFixture(t)
	addKnownUsers(t, f, 10)

	f.transport.EXPECT().SendToUser(mock.Anything, domain.UserID(10), textReminder, ports.SendOptions{}).
		Return(domain.NewDeliveryError(domain.DeliveryTransient, errors.New("connection reset"))).Once()

	report, err := f.service.Remind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderReport{Failed: 1}, report)

	known, err := f.users.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.UserID{10}, known)
	assert.Equal(t, 1, f.logs.FilterMessage("reminder delivery failed").Len())
}

func TestRemindWithNoKnownUsers(t *testing.T) {
	f := newFixture(t)

	report, err := f.service.Remind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ReminderReport{}, report)
}

func TestRemindDoesNotBlockConversation(t *testing.T) {
	f := newFixture(t)
	addKnownUsers(t, f, 10, 11, 12)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.transport.EXPECT().SendToUser(mock.Anything, mock.Anything, textReminder, ports.SendOptions{}).
		RunAndReturn(func(context.Context, domain.UserID, string, ports.SendOptions) error {
			once.Do(func() { close(started) })
			<-release
			return nil
		}).Times(3)

	done := make(chan ReminderReport)
	go func() {
		report, err := f.service.Remind(context.Background())
		assert.NoError(t, err)
		done <- report
	}()

	<-started
	f.send(t, 99, testLink)
	close(release)

	report := <-done
	assert.Equal(t, 3, report.Sent)
}

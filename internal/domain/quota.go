package domain

import (
	"fmt"
	"sort"
	"time"
)

// WeekKey is an ISO week label such as "2026-W42".
type WeekKey string

func WeekOf(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey(fmt.Sprintf("%d-W%02d", year, week))
}

type Quota struct {
	UserWeekly  int
	TotalWeekly int
}

func (q Quota) UserRemaining(sent int) int {
	return remaining(q.UserWeekly, sent)
}

func (q Quota) TotalRemaining(sent int) int {
	return remaining(q.TotalWeekly, sent)
}

func remaining(limit, sent int) int {
	if sent >= limit {
		return 0
	}
	return limit - sent
}

type WeeklyTally struct {
	Week    WeekKey
	PerUser map[UserID]int
}

func (t WeeklyTally) Total() int {
	total := 0
	for _, count := range t.PerUser {
		total += count
	}
	return total
}

// Users returns the users with submissions, highest count first.
func (t WeeklyTally) Users() []UserID {
	users := make([]UserID, 0, len(t.PerUser))
	for id := range t.PerUser {
		users = append(users, id)
	}

	sort.Slice(users, func(i, j int) bool {
		left, right := t.PerUser[users[i]], t.PerUser[users[j]]
		if left == right {
			return users[i] < users[j]
		}
		return left > right
	})

	return users
}

package toml

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"github.com/spf13/viper"
)

const (
	StatsPathKey  = "stats.path"
	statsFileName = "stats.toml"
)

type StatsRepository struct {
	path  string
	mu    sync.RWMutex
	weeks map[domain.WeekKey]map[domain.UserID]int
}

var _ ports.StatsRepository = (*StatsRepository)(nil)

func NewStatsRepository(cfg *viper.Viper) (*StatsRepository, error) {
	path, err := resolvePath(cfg, StatsPathKey, statsFileName)
	if err != nil {
		return nil, err
	}

	var file statsFileSchema
	if err := readTOMLFile(path, "stats", &file); err != nil {
		return nil, err
	}

	weeks := make(map[domain.WeekKey]map[domain.UserID]int, len(file.Weeks))
	for _, week := range file.Weeks {
		counts := make(map[domain.UserID]int, len(week.Users))
		for _, user := range week.Users {
			counts[domain.UserID(user.UserID)] = user.Count
		}
		weeks[domain.WeekKey(week.Week)] = counts
	}

	return &StatsRepository{path: path, weeks: weeks}, nil
}

func (r *StatsRepository) Increment(ctx context.Context, week domain.WeekKey, id domain.UserID) (domain.WeeklyTally, error) {
	if err := ctx.Err(); err != nil {
		return domain.WeeklyTally{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.weeks)
	counts := maps.Clone(next[week])
	if counts == nil {
		counts = map[domain.UserID]int{}
	}
	counts[id]++
	next[week] = counts

	if err := r.commit(next); err != nil {
		return domain.WeeklyTally{}, err
	}

	return domain.WeeklyTally{Week: week, PerUser: maps.Clone(counts)}, nil
}

func (r *StatsRepository) GetWeek(ctx context.Context, week domain.WeekKey) (domain.WeeklyTally, error) {
	if err := ctx.Err(); err != nil {
		return domain.WeeklyTally{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := maps.Clone(r.weeks[week])
	if counts == nil {
		counts = map[domain.UserID]int{}
	}

	return domain.WeeklyTally{Week: week, PerUser: counts}, nil
}

func (r *StatsRepository) commit(next map[domain.WeekKey]map[domain.UserID]int) error {
	weeks := make([]domain.WeekKey, 0, len(next))
	for week := range next {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })

	file := statsFileSchema{}
	for _, week := range weeks {
		tally := domain.WeeklyTally{Week: week, PerUser: next[week]}
		entry := weekSchema{Week: string(week)}
		for _, id := range tally.Users() {
			entry.Users = append(entry.Users, userCountSchema{UserID: int64(id), Count: tally.PerUser[id]})
		}
		file.Weeks = append(file.Weeks, entry)
	}

	if err := writeTOMLFile(r.path, "stats", &file); err != nil {
		return err
	}

	r.weeks = next
	return nil
}

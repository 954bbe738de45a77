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
	UsersPathKey  = "users.path"
	usersFileName = "users.toml"
)

type KnownUserRepository struct {
	path  string
	mu    sync.RWMutex
	users map[domain.UserID]struct{}
}

var _ ports.KnownUserRepository = (*KnownUserRepository)(nil)

func NewKnownUserRepository(cfg *viper.Viper) (*KnownUserRepository, error) {
	path, err := resolvePath(cfg, UsersPathKey, usersFileName)
	if err != nil {
		return nil, err
	}

	var file usersFileSchema
	if err := readTOMLFile(path, "users", &file); err != nil {
		return nil, err
	}

	users := make(map[domain.UserID]struct{}, len(file.Users))
	for _, id := range file.Users {
		users[domain.UserID(id)] = struct{}{}
	}

	return &KnownUserRepository{path: path, users: users}, nil
}

func (r *KnownUserRepository) Add(ctx context.Context, id domain.UserID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; ok {
		return false, nil
	}

	next := maps.Clone(r.users)
	next[id] = struct{}{}
	if err := r.commit(next); err != nil {
		return false, err
	}

	return true, nil
}

func (r *KnownUserRepository) Remove(ctx context.Context, id domain.UserID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return nil
	}

	next := maps.Clone(r.users)
	delete(next, id)

	return r.commit(next)
}

func (r *KnownUserRepository) List(ctx context.Context) ([]domain.UserID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedUserIDs(r.users), nil
}

func (r *KnownUserRepository) commit(next map[domain.UserID]struct{}) error {
	file := usersFileSchema{Users: []int64{}}
	for _, id := range sortedUserIDs(next) {
		file.Users = append(file.Users, int64(id))
	}

	if err := writeTOMLFile(r.path, "users", &file); err != nil {
		return err
	}

	r.users = next
	return nil
}

func sortedUserIDs(users map[domain.UserID]struct{}) []domain.UserID {
	ids := make([]domain.UserID, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Package redis provides record stores backed by Redis hashes and sets.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "intakebot:"

// Store shares one client between the record stores of this package.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to redisURL and verifies the connection.
func NewStore(redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewStoreWithClient(client), nil
}

func NewStoreWithClient(client *goredis.Client) *Store {
	return &Store{client: client, prefix: defaultPrefix}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) Decisions() *DecisionRepository {
	return &DecisionRepository{store: s}
}

func (s *Store) Links() *LinkLedger {
	return &LinkLedger{store: s}
}

func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{store: s}
}

func (s *Store) KnownUsers() *KnownUserRepository {
	return &KnownUserRepository{store: s}
}

func (s *Store) Stats() *StatsRepository {
	return &StatsRepository{store: s}
}

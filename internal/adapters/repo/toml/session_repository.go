package toml

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"github.com/spf13/viper"
)

const (
	SessionsPathKey  = "sessions.path"
	sessionsFileName = "sessions.toml"
)

// SessionRepository stores in-progress sessions. Saving an empty session removes its record.
type SessionRepository struct {
	path     string
	mu       sync.RWMutex
	sessions map[domain.UserID]domain.Session
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(cfg *viper.Viper) (*SessionRepository, error) {
	path, err := resolvePath(cfg, SessionsPathKey, sessionsFileName)
	if err != nil {
		return nil, err
	}

	var file sessionsFileSchema
	if err := readTOMLFile(path, "sessions", &file); err != nil {
		return nil, err
	}

	sessions := make(map[domain.UserID]domain.Session, len(file.Sessions))
	for _, entry := range file.Sessions {
		session, err := fromSessionSchema(entry)
		if err != nil {
			return nil, fmt.Errorf("decode sessions file %s: user %d: %w", path, entry.UserID, err)
		}
		sessions[session.UserID] = session
	}

	return &SessionRepository{path: path, sessions: sessions}, nil
}

func (r *SessionRepository) GetByUserID(ctx context.Context, id domain.UserID) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.sessions[session.UserID]
	if session.IsEmpty() && !exists {
		return nil
	}
	if exists && current == session {
		return nil
	}

	next := maps.Clone(r.sessions)
	if session.IsEmpty() {
		delete(next, session.UserID)
	} else {
		next[session.UserID] = session
	}

	ids := make([]domain.UserID, 0, len(next))
	for id := range next {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	file := sessionsFileSchema{}
	for _, id := range ids {
		file.Sessions = append(file.Sessions, toSessionSchema(next[id]))
	}

	if err := writeTOMLFile(r.path, "sessions", &file); err != nil {
		return err
	}

	r.sessions = next
	return nil
}

func toSessionSchema(session domain.Session) sessionSchema {
	return sessionSchema{
		UserID:              int64(session.UserID),
		State:               string(session.CurrentState()),
		Link:                session.Link,
		DecisionID:          string(session.DecisionID),
		Qualifier:           string(session.Qualifier),
		PendingQualifierFor: string(session.PendingQualifierFor),
		FinalMessage:        session.FinalMessage,
		UpdatedAt:           formatTime(session.UpdatedAt),
	}
}

func fromSessionSchema(schema sessionSchema) (domain.Session, error) {
	updatedAt, err := parseTime(schema.UpdatedAt)
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		UserID:              domain.UserID(schema.UserID),
		State:               domain.State(schema.State),
		Link:                schema.Link,
		DecisionID:          domain.DecisionID(schema.DecisionID),
		Qualifier:           domain.Qualifier(schema.Qualifier),
		PendingQualifierFor: domain.DecisionID(schema.PendingQualifierFor),
		FinalMessage:        schema.FinalMessage,
		UpdatedAt:           updatedAt,
	}, nil
}

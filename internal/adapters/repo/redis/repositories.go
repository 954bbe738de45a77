package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const (
	decisionsKey = "decisions"
	linksKey     = "links"
	sessionsKey  = "sessions"
	usersKey     = "users"
	statsKey     = "stats:"
)

type decisionRecord struct {
	Text      string `json:"text"`
	Qualifier string `json:"qualifier,omitempty"`
}

type sessionRecord struct {
	State               string    `json:"state"`
	Link                string    `json:"link,omitempty"`
	DecisionID          string    `json:"decision_id,omitempty"`
	Qualifier           string    `json:"qualifier,omitempty"`
	PendingQualifierFor string    `json:"pending_qualifier_for,omitempty"`
	FinalMessage        string    `json:"final_message,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type DecisionRepository struct {
	store *Store
}

var _ ports.DecisionRepository = (*DecisionRepository)(nil)

func (r *DecisionRepository) GetByID(ctx context.Context, id domain.DecisionID) (domain.Decision, error) {
	raw, err := r.store.client.HGet(ctx, r.store.key(decisionsKey), string(id)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Decision{}, domain.ErrDecisionNotFound
		}
		return domain.Decision{}, fmt.Errorf("get decision %s: %w", id, err)
	}

	return decodeDecision(id, raw)
}

func (r *DecisionRepository) List(ctx context.Context) ([]domain.Decision, error) {
	all, err := r.store.client.HGetAll(ctx, r.store.key(decisionsKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	decisions := make([]domain.Decision, 0, len(all))
	for id, raw := range all {
		decision, err := decodeDecision(domain.DecisionID(id), raw)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, decision)
	}

	sort.Slice(decisions, func(i, j int) bool {
		left, right := decisions[i].ID, decisions[j].ID
		if len(left) != len(right) {
			return len(left) < len(right)
		}
		return left < right
	})

	return decisions, nil
}

func (r *DecisionRepository) Save(ctx context.Context, decision domain.Decision) error {
	return r.SaveAll(ctx, []domain.Decision{decision})
}

func (r *DecisionRepository) SaveAll(ctx context.Context, decisions []domain.Decision) error {
	values := make([]any, 0, len(decisions)*2)
	for _, decision := range decisions {
		if decision.ID == "" {
			return fmt.Errorf("save decision: id is required")
		}
		data, err := json.Marshal(decisionRecord{Text: decision.CanonicalText, Qualifier: string(decision.Qualifier)})
		if err != nil {
			return fmt.Errorf("encode decision %s: %w", decision.ID, err)
		}
		values = append(values, string(decision.ID), string(data))
	}
	if len(values) == 0 {
		return nil
	}

	if err := r.store.client.HSet(ctx, r.store.key(decisionsKey), values...).Err(); err != nil {
		return fmt.Errorf("save decisions: %w", err)
	}

	return nil
}

func decodeDecision(id domain.DecisionID, raw string) (domain.Decision, error) {
	var record decisionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return domain.Decision{}, fmt.Errorf("decode decision %s: %w", id, err)
	}

	qualifier := domain.Qualifier(record.Qualifier)
	if !qualifier.Valid() {
		qualifier = ""
	}

	return domain.Decision{ID: id, CanonicalText: record.Text, Qualifier: qualifier}, nil
}

type LinkLedger struct {
	store *Store
}

var _ ports.LinkLedger = (*LinkLedger)(nil)

func (l *LinkLedger) Get(ctx context.Context, link string) (domain.LinkEntry, error) {
	link = domain.NormalizeLink(link)

	raw, err := l.store.client.HGet(ctx, l.store.key(linksKey), link).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.LinkEntry{}, domain.ErrLinkNotFound
		}
		return domain.LinkEntry{}, fmt.Errorf("get link: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return domain.LinkEntry{}, fmt.Errorf("decode link timestamp: %w", err)
	}

	return domain.LinkEntry{Link: link, LastSubmittedAt: at}, nil
}

func (l *LinkLedger) Save(ctx context.Context, entry domain.LinkEntry) error {
	link := domain.NormalizeLink(entry.Link)
	if err := l.store.client.HSet(ctx, l.store.key(linksKey), link, entry.LastSubmittedAt.Format(time.RFC3339Nano)).Err(); err != nil {
		return fmt.Errorf("save link: %w", err)
	}

	return nil
}

func (l *LinkLedger) Delete(ctx context.Context, link string) error {
	if err := l.store.client.HDel(ctx, l.store.key(linksKey), domain.NormalizeLink(link)).Err(); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	return nil
}

type SessionRepository struct {
	store *Store
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) GetByUserID(ctx context.Context, id domain.UserID) (domain.Session, error) {
	raw, err := r.store.client.HGet(ctx, r.store.key(sessionsKey), id.String()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("get session %s: %w", id, err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}

	return domain.Session{
		UserID:              id,
		State:               domain.State(record.State),
		Link:                record.Link,
		DecisionID:          domain.DecisionID(record.DecisionID),
		Qualifier:           domain.Qualifier(record.Qualifier),
		PendingQualifierFor: domain.DecisionID(record.PendingQualifierFor),
		FinalMessage:        record.FinalMessage,
		UpdatedAt:           record.UpdatedAt,
	}, nil
}

func (r *SessionRepository) Save(ctx context.Context, session domain.Session) error {
	key := r.store.key(sessionsKey)
	field := session.UserID.String()

	if session.IsEmpty() {
		if err := r.store.client.HDel(ctx, key, field).Err(); err != nil {
			return fmt.Errorf("clear session %s: %w", field, err)
		}
		return nil
	}

	data, err := json.Marshal(sessionRecord{
		State:               string(session.CurrentState()),
		Link:                session.Link,
		DecisionID:          string(session.DecisionID),
		Qualifier:           string(session.Qualifier),
		PendingQualifierFor: string(session.PendingQualifierFor),
		FinalMessage:        session.FinalMessage,
		UpdatedAt:           session.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode session %s: %w", field, err)
	}

	if err := r.store.client.HSet(ctx, key, field, string(data)).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", field, err)
	}

	return nil
}

type KnownUserRepository struct {
	store *Store
}

var _ ports.KnownUserRepository = (*KnownUserRepository)(nil)

func (r *KnownUserRepository) Add(ctx context.Context, id domain.UserID) (bool, error) {
	added, err := r.store.client.SAdd(ctx, r.store.key(usersKey), id.String()).Result()
	if err != nil {
		return false, fmt.Errorf("add known user %s: %w", id, err)
	}

	return added > 0, nil
}

func (r *KnownUserRepository) Remove(ctx context.Context, id domain.UserID) error {
	if err := r.store.client.SRem(ctx, r.store.key(usersKey), id.String()).Err(); err != nil {
		return fmt.Errorf("remove known user %s: %w", id, err)
	}

	return nil
}

func (r *KnownUserRepository) List(ctx context.Context) ([]domain.UserID, error) {
	members, err := r.store.client.SMembers(ctx, r.store.key(usersKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("list known users: %w", err)
	}

	ids := make([]domain.UserID, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode known user %q: %w", member, err)
		}
		ids = append(ids, domain.UserID(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

type StatsRepository struct {
	store *Store
}

var _ ports.StatsRepository = (*StatsRepository)(nil)

func (r *StatsRepository) Increment(ctx context.Context, week domain.WeekKey, id domain.UserID) (domain.WeeklyTally, error) {
	if err := r.store.client.HIncrBy(ctx, r.store.key(statsKey+string(week)), id.String(), 1).Err(); err != nil {
		return domain.WeeklyTally{}, fmt.Errorf("increment stats for %s: %w", id, err)
	}

	return r.GetWeek(ctx, week)
}

func (r *StatsRepository) GetWeek(ctx context.Context, week domain.WeekKey) (domain.WeeklyTally, error) {
	all, err := r.store.client.HGetAll(ctx, r.store.key(statsKey+string(week))).Result()
	if err != nil {
		return domain.WeeklyTally{}, fmt.Errorf("get stats for %s: %w", week, err)
	}

	counts := make(map[domain.UserID]int, len(all))
	for member, raw := range all {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return domain.WeeklyTally{}, fmt.Errorf("decode stats user %q: %w", member, err)
		}
		count, err := strconv.Atoi(raw)
		if err != nil {
			return domain.WeeklyTally{}, fmt.Errorf("decode stats count %q: %w", raw, err)
		}
		counts[domain.UserID(id)] = count
	}

	return domain.WeeklyTally{Week: week, PerUser: counts}, nil
}

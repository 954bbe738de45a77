package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"go.uber.org/zap"
)

// ErrPersistence marks failures of a store write. The in-memory state is left as it was before the turn.
var ErrPersistence = errors.New("persistence failure")

const defaultReminderConcurrency = 8

type Repositories struct {
	Decisions ports.DecisionRepository
	Links     ports.LinkLedger
	Sessions  ports.SessionRepository
	Users     ports.KnownUserRepository
	Stats     ports.StatsRepository
}

type Config struct {
	ChannelID           domain.ChannelID
	ManagerID           domain.UserID
	Quota               domain.Quota
	ReminderConcurrency int
	// Location is used when showing dates to users.
	Location *time.Location
}

type transitionFunc func(ctx context.Context, session domain.Session, input string) ([]Reply, error)

// Service owns the conversation state machine and the record stores behind it.
type Service struct {
	repos     Repositories
	transport ports.Transport
	clock     ports.Clock
	logger    *zap.Logger
	cfg       Config

	// mu serializes conversation turns across all users.
	mu          sync.Mutex
	transitions map[domain.State]transitionFunc
	background  sync.WaitGroup
}

func NewService(repos Repositories, transport ports.Transport, clock ports.Clock, logger *zap.Logger, cfg Config) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReminderConcurrency <= 0 {
		cfg.ReminderConcurrency = defaultReminderConcurrency
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	s := &Service{
		repos:     repos,
		transport: transport,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
	s.transitions = map[domain.State]transitionFunc{
		domain.StateAwaitingLink:         s.onAwaitingLink,
		domain.StateAwaitingDecisionID:   s.onAwaitingDecisionID,
		domain.StateAwaitingQualifier:    s.onAwaitingQualifier,
		domain.StateAwaitingConfirmation: s.onAwaitingConfirmation,
	}

	return s
}

// HandleMessage runs one conversation turn for the user and returns the replies to send.
// On ErrPersistence the replies carry the generic retry message.
func (s *Service) HandleMessage(ctx context.Context, userID domain.UserID, text string) ([]Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input := strings.TrimSpace(text)

	if err := s.rememberUser(ctx, userID); err != nil {
		return persistenceFailure("remember user", err)
	}

	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return persistenceFailure("load session", err)
	}

	if command, ok := parseCommand(input); ok {
		switch command {
		case CommandStart:
			return s.resetSession(ctx, session, textAskLink)
		case CommandCancel:
			return s.resetSession(ctx, session, textCanceled)
		}
	}

	state := session.CurrentState()
	replies, err := s.transitions[state](ctx, session, input)
	if err != nil {
		s.logger.Error("conversation turn failed",
			zap.Int64("user_id", int64(userID)),
			zap.String("state", string(state)),
			zap.Error(err))
	}

	return replies, err
}

// CanAccept checks the link ledger for a previous acceptance inside the reuse window.
func (s *Service) CanAccept(ctx context.Context, link string, now time.Time) (domain.ReuseVerdict, error) {
	verdict, _, err := s.checkLink(ctx, link, now)
	return verdict, err
}

// LookupDecision reports whether the decision id is known to the registry.
func (s *Service) LookupDecision(ctx context.Context, id domain.DecisionID) (domain.Decision, bool, error) {
	decision, err := s.repos.Decisions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDecisionNotFound) {
			return domain.Decision{}, false, nil
		}
		return domain.Decision{}, false, fmt.Errorf("get decision by id: %w", err)
	}

	return decision, true, nil
}

// Wait blocks until background work started by manager commands finishes.
func (s *Service) Wait() {
	s.background.Wait()
}

func (s *Service) checkLink(ctx context.Context, link string, now time.Time) (domain.ReuseVerdict, *domain.LinkEntry, error) {
	entry, err := s.repos.Links.Get(ctx, domain.NormalizeLink(link))
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			return domain.CheckReuse(nil, now), nil, nil
		}
		return domain.ReuseVerdict{}, nil, fmt.Errorf("get link entry: %w", err)
	}

	return domain.CheckReuse(&entry, now), &entry, nil
}

func (s *Service) rememberUser(ctx context.Context, userID domain.UserID) error {
	added, err := s.repos.Users.Add(ctx, userID)
	if err != nil {
		return err
	}
	if added {
		s.logger.Info("new user", zap.Int64("user_id", int64(userID)))
	}

	return nil
}

func (s *Service) loadSession(ctx context.Context, userID domain.UserID) (domain.Session, error) {
	session, err := s.repos.Sessions.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.NewSession(userID), nil
		}
		return domain.Session{}, err
	}

	return session, nil
}

func (s *Service) saveSession(ctx context.Context, session domain.Session) error {
	if !session.IsEmpty() {
		session.UpdatedAt = s.clock.Now()
	}

	return s.repos.Sessions.Save(ctx, session)
}

func (s *Service) resetSession(ctx context.Context, session domain.Session, text string) ([]Reply, error) {
	session.Reset()
	if err := s.saveSession(ctx, session); err != nil {
		return persistenceFailure("reset session", err)
	}

	return []Reply{{Text: text}}, nil
}

func persistenceFailure(op string, err error) ([]Reply, error) {
	return []Reply{{Text: textRetryLater}}, fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}

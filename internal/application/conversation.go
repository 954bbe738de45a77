package application

import (
	"context"
	"errors"

	"github.com/bnema/intakebot/internal/domain"
	"go.uber.org/zap"
)

func (s *Service) onAwaitingLink(ctx context.Context, session domain.Session, input string) ([]Reply, error) {
	link := domain.NormalizeLink(input)
	if !domain.ValidLink(link) {
		return []Reply{{Text: textInvalidLink}}, nil
	}

	now := s.clock.Now()
	verdict, previous, err := s.checkLink(ctx, link, now)
	if err != nil {
		return persistenceFailure("check link reuse", err)
	}
	if !verdict.Accepted {
		s.logger.Info("link rejected inside reuse window",
			zap.Int64("user_id", int64(session.UserID)),
			zap.String("link", link),
			zap.Time("next_eligible_at", verdict.NextEligibleAt))
		return []Reply{{Text: textLinkReused(verdict, s.cfg.Location)}}, nil
	}

	if err := s.repos.Links.Save(ctx, domain.LinkEntry{Link: link, LastSubmittedAt: now}); err != nil {
		return persistenceFailure("record link", err)
	}

	next := session
	next.Link = link
	next.State = domain.StateAwaitingDecisionID
	if err := s.saveSession(ctx, next); err != nil {
		if rollbackErr := s.restoreLink(ctx, link, previous); rollbackErr != nil {
			return persistenceFailure("save session and rollback link", errors.Join(err, rollbackErr))
		}
		return persistenceFailure("save session", err)
	}

	return []Reply{{Text: textAskDecision}}, nil
}

func (s *Service) onAwaitingDecisionID(ctx context.Context, session domain.Session, input string) ([]Reply, error) {
	id, ok := domain.ParseDecisionID(input)
	if !ok {
		return []Reply{{Text: textInvalidDecision}}, nil
	}

	decision, found, err := s.LookupDecision(ctx, id)
	if err != nil {
		return persistenceFailure("lookup decision", err)
	}
	if !found {
		return []Reply{{Text: textUnknownDecision(id)}}, nil
	}

	next := session
	next.DecisionID = id

	if decision.HasQualifier() {
		next.Qualifier = decision.Qualifier
		next.PendingQualifierFor = ""
		next.FinalMessage = domain.ComposeNotice(next.Link, decision.Qualifier, decision.CanonicalText, id, domain.CasingLowerFirst)
		next.State = domain.StateAwaitingConfirmation
		if err := s.saveSession(ctx, next); err != nil {
			return persistenceFailure("save session", err)
		}
		return []Reply{{Text: textConfirmNotice(next.FinalMessage), Buttons: confirmationButtons()}}, nil
	}

	next.Qualifier = ""
	next.PendingQualifierFor = id
	next.State = domain.StateAwaitingQualifier
	if err := s.saveSession(ctx, next); err != nil {
		return persistenceFailure("save session", err)
	}

	return []Reply{{Text: textAskQualifier, Buttons: qualifierButtons()}}, nil
}

func (s *Service) onAwaitingQualifier(ctx context.Context, session domain.Session, input string) ([]Reply, error) {
	qualifier, ok := domain.ParseQualifier(input)
	if !ok {
		return []Reply{{Text: textInvalidQualifier, Buttons: qualifierButtons()}}, nil
	}

	id := session.PendingQualifierFor
	if id == "" {
		id = session.DecisionID
	}
	if id == "" {
		next := session
		next.State = domain.StateAwaitingDecisionID
		next.Qualifier = ""
		if err := s.saveSession(ctx, next); err != nil {
			return persistenceFailure("save session", err)
		}
		return []Reply{{Text: textMissingDecision}}, nil
	}

	decision, found, err := s.LookupDecision(ctx, id)
	if err != nil {
		return persistenceFailure("lookup decision", err)
	}
	if !found {
		next := session
		next.State = domain.StateAwaitingDecisionID
		next.DecisionID = ""
		next.PendingQualifierFor = ""
		if err := s.saveSession(ctx, next); err != nil {
			return persistenceFailure("save session", err)
		}
		return []Reply{{Text: textUnknownDecision(id)}}, nil
	}

	original := decision
	resolved := decision.ResolveQualifier(qualifier)
	if resolved {
		if err := s.repos.Decisions.Save(ctx, decision); err != nil {
			return persistenceFailure("save decision qualifier", err)
		}
	}

	next := session
	next.DecisionID = id
	next.Qualifier = qualifier
	next.PendingQualifierFor = ""
	next.FinalMessage = domain.ComposeNotice(next.Link, qualifier, decision.CanonicalText, id, domain.CasingLowerFirst)
	next.State = domain.StateAwaitingConfirmation
	if err := s.saveSession(ctx, next); err != nil {
		if resolved {
			if rollbackErr := s.repos.Decisions.Save(ctx, original); rollbackErr != nil {
				return persistenceFailure("save session and rollback decision qualifier", errors.Join(err, rollbackErr))
			}
		}
		return persistenceFailure("save session", err)
	}

	if resolved {
		s.logger.Info("decision qualifier recorded",
			zap.String("decision_id", string(id)),
			zap.String("qualifier", string(qualifier)))
	}

	return []Reply{{Text: textConfirmNotice(next.FinalMessage), Buttons: confirmationButtons()}}, nil
}

func (s *Service) onAwaitingConfirmation(ctx context.Context, session domain.Session, input string) ([]Reply, error) {
	switch parseIntent(input) {
	case IntentConfirm:
		return s.confirm(ctx, session)
	case IntentRestart:
		return s.resetSession(ctx, session, textRestarted)
	case IntentChangeQualifier:
		next := session
		next.Qualifier = ""
		next.FinalMessage = ""
		next.PendingQualifierFor = session.DecisionID
		next.State = domain.StateAwaitingQualifier
		if err := s.saveSession(ctx, next); err != nil {
			return persistenceFailure("save session", err)
		}
		return []Reply{{Text: textAskQualifier, Buttons: qualifierButtons()}}, nil
	default:
		return []Reply{{Text: textAskIntent, Buttons: confirmationButtons()}}, nil
	}
}

func (s *Service) confirm(ctx context.Context, session domain.Session) ([]Reply, error) {
	if session.FinalMessage == "" {
		return s.resetSession(ctx, session, textRestarted)
	}

	// Reset is persisted before the broadcast; a failed broadcast restores the session.
	next := session
	next.Reset()
	if err := s.saveSession(ctx, next); err != nil {
		return persistenceFailure("reset session before publish", err)
	}

	if err := s.transport.SendToChannel(ctx, s.cfg.ChannelID, session.FinalMessage); err != nil {
		s.logger.Error("broadcast failed",
			zap.Int64("user_id", int64(session.UserID)),
			zap.Int64("channel_id", int64(s.cfg.ChannelID)),
			zap.Error(err))
		if restoreErr := s.repos.Sessions.Save(ctx, session); restoreErr != nil {
			return persistenceFailure("restore session after failed publish", errors.Join(err, restoreErr))
		}
		return []Reply{{Text: textPublishFailed, Buttons: confirmationButtons()}}, nil
	}

	s.logger.Info("notice published",
		zap.Int64("user_id", int64(session.UserID)),
		zap.String("decision_id", string(session.DecisionID)))

	replies := []Reply{{Text: textPublished}}
	return append(replies, s.recordSubmission(ctx, session.UserID)...), nil
}

// recordSubmission counts a published notice toward the weekly quotas. Failures only lose the counter.
func (s *Service) recordSubmission(ctx context.Context, userID domain.UserID) []Reply {
	if s.repos.Stats == nil {
		return nil
	}

	tally, err := s.repos.Stats.Increment(ctx, domain.WeekOf(s.clock.Now()), userID)
	if err != nil {
		s.logger.Warn("record weekly stats", zap.Int64("user_id", int64(userID)), zap.Error(err))
		return nil
	}

	return []Reply{
		{Text: textUserQuota(tally.PerUser[userID], s.cfg.Quota)},
		{Text: textTotalQuota(tally.Total(), s.cfg.Quota)},
	}
}

func (s *Service) restoreLink(ctx context.Context, link string, previous *domain.LinkEntry) error {
	if previous == nil {
		return s.repos.Links.Delete(ctx, link)
	}
	return s.repos.Links.Save(ctx, *previous)
}

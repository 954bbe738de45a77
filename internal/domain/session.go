package domain

import "time"

type State string

const (
	StateAwaitingLink         State = "awaiting_link"
	StateAwaitingDecisionID   State = "awaiting_decision_id"
	StateAwaitingQualifier    State = "awaiting_qualifier"
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

func (s State) Valid() bool {
	switch s {
	case StateAwaitingLink, StateAwaitingDecisionID, StateAwaitingQualifier, StateAwaitingConfirmation:
		return true
	default:
		return false
	}
}

type Session struct {
	UserID     UserID
	State      State
	Link       string
	DecisionID DecisionID
	Qualifier  Qualifier
	// PendingQualifierFor is set while the user is asked to pick a qualifier for a decision.
	PendingQualifierFor DecisionID
	FinalMessage        string
	UpdatedAt           time.Time
}

func NewSession(id UserID) Session {
	return Session{UserID: id, State: StateAwaitingLink}
}

// CurrentState treats unknown or empty persisted states as the start of the flow.
func (s Session) CurrentState() State {
	if !s.State.Valid() {
		return StateAwaitingLink
	}
	return s.State
}

func (s *Session) Reset() {
	*s = NewSession(s.UserID)
}

func (s Session) IsEmpty() bool {
	return s.CurrentState() == StateAwaitingLink &&
		s.Link == "" &&
		s.DecisionID == "" &&
		s.Qualifier == "" &&
		s.PendingQualifierFor == "" &&
		s.FinalMessage == ""
}

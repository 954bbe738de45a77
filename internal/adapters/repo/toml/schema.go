package toml

import "fmt"

const (
	currentDecisionsSchemaVersion = 1
	currentLinksSchemaVersion     = 1
	currentSessionsSchemaVersion  = 1
	currentUsersSchemaVersion     = 1
	currentStatsSchemaVersion     = 1
)

type versionedSchema interface {
	applyDefaults()
	validateVersion() error
}

func checkVersion(label string, version, current int) error {
	if version > current {
		return fmt.Errorf("unsupported %s schema version %d (current %d)", label, version, current)
	}

	return nil
}

type decisionsFileSchema struct {
	Version   int              `toml:"version"`
	Decisions []decisionSchema `toml:"decisions"`
}

func (s *decisionsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentDecisionsSchemaVersion
	}
}

func (s decisionsFileSchema) validateVersion() error {
	return checkVersion("decisions", s.Version, currentDecisionsSchemaVersion)
}

type decisionSchema struct {
	ID        string `toml:"id"`
	Text      string `toml:"text"`
	Qualifier string `toml:"qualifier,omitempty"`
}

type linksFileSchema struct {
	Version int          `toml:"version"`
	Links   []linkSchema `toml:"links"`
}

func (s *linksFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentLinksSchemaVersion
	}
}

func (s linksFileSchema) validateVersion() error {
	return checkVersion("links", s.Version, currentLinksSchemaVersion)
}

type linkSchema struct {
	Link            string `toml:"link"`
	LastSubmittedAt string `toml:"last_submitted_at"`
}

type sessionsFileSchema struct {
	Version  int             `toml:"version"`
	Sessions []sessionSchema `toml:"sessions"`
}

func (s *sessionsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSessionsSchemaVersion
	}
}

func (s sessionsFileSchema) validateVersion() error {
	return checkVersion("sessions", s.Version, currentSessionsSchemaVersion)
}

type sessionSchema struct {
	UserID              int64  `toml:"user_id"`
	State               string `toml:"state"`
	Link                string `toml:"link,omitempty"`
	DecisionID          string `toml:"decision_id,omitempty"`
	Qualifier           string `toml:"qualifier,omitempty"`
	PendingQualifierFor string `toml:"pending_qualifier_for,omitempty"`
	FinalMessage        string `toml:"final_message,omitempty"`
	UpdatedAt           string `toml:"updated_at,omitempty"`
}

type usersFileSchema struct {
	Version int     `toml:"version"`
	Users   []int64 `toml:"users"`
}

func (s *usersFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentUsersSchemaVersion
	}
}

func (s usersFileSchema) validateVersion() error {
	return checkVersion("users", s.Version, currentUsersSchemaVersion)
}

type statsFileSchema struct {
	Version int          `toml:"version"`
	Weeks   []weekSchema `toml:"weeks"`
}

func (s *statsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentStatsSchemaVersion
	}
}

func (s statsFileSchema) validateVersion() error {
	return checkVersion("stats", s.Version, currentStatsSchemaVersion)
}

type weekSchema struct {
	Week  string            `toml:"week"`
	Users []userCountSchema `toml:"users"`
}

type userCountSchema struct {
	UserID int64 `toml:"user_id"`
	Count  int   `toml:"count"`
}

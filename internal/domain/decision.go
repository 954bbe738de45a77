package domain

import "strings"

type DecisionID string

// ParseDecisionID accepts a non-empty string of ASCII digits after trimming.
func ParseDecisionID(raw string) (DecisionID, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	return DecisionID(trimmed), true
}

type Qualifier string

const (
	QualifierMasculine Qualifier = "masculine"
	QualifierFeminine  Qualifier = "feminine"
	QualifierNeuter    Qualifier = "neuter"
)

var qualifierTokens = map[Qualifier]string{
	QualifierMasculine: "размещен",
	QualifierFeminine:  "размещена",
	QualifierNeuter:    "размещено",
}

// Qualifiers returns the qualifiers in the order they are offered to users.
func Qualifiers() []Qualifier {
	return []Qualifier{QualifierMasculine, QualifierFeminine, QualifierNeuter}
}

func (q Qualifier) Valid() bool {
	_, ok := qualifierTokens[q]
	return ok
}

// Token is the inflected word used in notices and on keyboard buttons.
func (q Qualifier) Token() string {
	return qualifierTokens[q]
}

func ParseQualifier(raw string) (Qualifier, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, q := range Qualifiers() {
		if qualifierTokens[q] == trimmed {
			return q, true
		}
	}

	return "", false
}

type Decision struct {
	ID            DecisionID
	CanonicalText string
	Qualifier     Qualifier
}

func (d Decision) HasQualifier() bool {
	return d.Qualifier != ""
}

// ResolveQualifier sets the qualifier only when none is recorded yet.
// It reports whether the record changed.
func (d *Decision) ResolveQualifier(q Qualifier) bool {
	if d == nil || d.HasQualifier() || !q.Valid() {
		return false
	}

	d.Qualifier = q
	return true
}

package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

const ReuseWindow = 90 * 24 * time.Hour

var linkPattern = regexp.MustCompile(`^https?://[^\s/?#]+[^\s]*$`)

func NormalizeLink(raw string) string {
	return strings.TrimSpace(raw)
}

// ValidLink reports whether raw is an absolute http(s) URL with no embedded whitespace.
func ValidLink(raw string) bool {
	link := NormalizeLink(raw)
	return strings.IndexFunc(link, unicode.IsSpace) < 0 && linkPattern.MatchString(link)
}

type LinkEntry struct {
	Link            string
	LastSubmittedAt time.Time
}

type ReuseVerdict struct {
	Accepted       bool
	LastSentAt     time.Time
	NextEligibleAt time.Time
}

// CheckReuse rejects a link whose last acceptance is less than ReuseWindow before now.
// A nil entry means the link was never accepted.
func CheckReuse(entry *LinkEntry, now time.Time) ReuseVerdict {
	if entry == nil || entry.LastSubmittedAt.IsZero() {
		return ReuseVerdict{Accepted: true}
	}

	if now.Sub(entry.LastSubmittedAt) >= ReuseWindow {
		return ReuseVerdict{Accepted: true, LastSentAt: entry.LastSubmittedAt}
	}

	return ReuseVerdict{
		Accepted:       false,
		LastSentAt:     entry.LastSubmittedAt,
		NextEligibleAt: entry.LastSubmittedAt.Add(ReuseWindow),
	}
}

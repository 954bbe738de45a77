package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/intakebot/internal/application"
	"github.com/bnema/intakebot/internal/domain"
)

const barWidth = 24

func renderView(stats application.WeeklyStats, s styles) string {
	total := stats.Tally.Total()
	lines := []string{
		s.title.Render("Weekly notices"),
		s.header.Render(fmt.Sprintf("week: %s", stats.Tally.Week)),
		s.section.Render(quotaLine("total", total, stats.Quota.TotalWeekly, s)),
	}

	users := stats.Tally.Users()
	if len(users) == 0 {
		lines = append(lines, s.empty.Render("No notices published this week."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	userLines := make([]string, 0, len(users))
	for _, id := range users {
		userLines = append(userLines, quotaLine(userLabel(id), stats.Tally.PerUser[id], stats.Quota.UserWeekly, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, userLines...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func userLabel(id domain.UserID) string {
	return "user " + id.String()
}

func quotaLine(label string, sent, limit int, s styles) string {
	labelStyle := s.header
	if label != "total" {
		labelStyle = s.user
	}

	meta := s.meta.Render(fmt.Sprintf("%d/%d (%d left)", sent, limit, remaining(limit, sent)))
	if limit > 0 && sent >= limit {
		meta = s.done.Render(fmt.Sprintf("%d/%d done", sent, limit))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		labelStyle.Render(label+":"),
		" ",
		renderProgressBar(sent, limit, barWidth, s),
		" ",
		meta,
	)
}

func renderProgressBar(sent, limit, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if limit > 0 {
		filled = int(math.Round(float64(width) * float64(sent) / float64(limit)))
	}
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func remaining(limit, sent int) int {
	return domain.Quota{UserWeekly: limit}.UserRemaining(sent)
}

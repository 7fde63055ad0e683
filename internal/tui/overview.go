package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/otienod/zonedash/internal/profile"
)

type overviewModel struct {
	width  int
	height int

	stats     *profile.ProfileStatistics
	fromCache bool
	takenAt   time.Time
}

func newOverviewModel() overviewModel {
	return overviewModel{}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
}

func (o *overviewModel) setStats(stats *profile.ProfileStatistics, fromCache bool, takenAt time.Time) {
	o.stats = stats
	o.fromCache = fromCache
	o.takenAt = takenAt
}

func (o overviewModel) view() string {
	w := o.width - 4
	if o.stats == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No data yet. Press r to refresh."))
	}
	s := o.stats

	greeting := titleStyle.Render("Welcome, " + s.Login)
	var source string
	if o.fromCache {
		source = warningStyle.Render(fmt.Sprintf("cached snapshot from %s", formatDate(o.takenAt)))
	} else {
		source = mutedStyle.Render("live data, fetched " + o.takenAt.Format("15:04:05"))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total XP", formatXP(s.TotalXP)),
		statCard("Audit ratio", s.Audits.RatioString()),
		statCard("Audits done", s.Audits.Done.CountString()),
		statCard("Audits received", s.Audits.Received.CountString()),
		statCard("Open audits", fmt.Sprintf("%d", s.OpenAudits)),
	)

	categories := o.renderCategories(w)
	skills := o.renderTopSkills()

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			greeting, source, "", cards, "", categories, "", skills,
		),
	)
}

func statCard(label, value string) string {
	return cardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			cardValueStyle.Render(value),
			cardLabelStyle.Render(label),
		),
	)
}

func (o overviewModel) renderCategories(w int) string {
	s := o.stats
	var rows []string
	rows = append(rows, titleStyle.Render("XP by category"))
	if len(s.XPByCategory) == 0 {
		rows = append(rows, mutedStyle.Render("  No XP recorded"))
		return strings.Join(rows, "\n")
	}
	for _, name := range sortedCategories(s.XPByCategory) {
		rows = append(rows, fmt.Sprintf("  %-14s %s",
			name, accentStyle.Render(formatXP(s.XPByCategory[name]))))
	}
	return strings.Join(rows, "\n")
}

func (o overviewModel) renderTopSkills() string {
	s := o.stats
	var rows []string
	rows = append(rows, titleStyle.Render("Top skills"))
	if len(s.TopSkills) == 0 {
		rows = append(rows, mutedStyle.Render("  No skills yet"))
		return strings.Join(rows, "\n")
	}
	var items []string
	for _, sk := range s.TopSkills {
		items = append(items, fmt.Sprintf("%s %s",
			normalItemStyle.Render(sk.Name),
			mutedStyle.Render(fmt.Sprintf("%.0f", sk.Amount))))
	}
	rows = append(rows, "  "+strings.Join(items, mutedStyle.Render("  ·  ")))
	return strings.Join(rows, "\n")
}

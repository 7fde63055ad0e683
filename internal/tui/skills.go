package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/otienod/zonedash/internal/profile"
)

type skillsModel struct {
	width  int
	height int

	stats *profile.ProfileStatistics
}

func newSkillsModel() skillsModel {
	return skillsModel{}
}

func (s *skillsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *skillsModel) setStats(stats *profile.ProfileStatistics, _ bool, _ time.Time) {
	s.stats = stats
}

func (s skillsModel) view() string {
	w := s.width - 4
	if s.stats == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No data yet. Press r to refresh."))
	}
	skills := s.stats.TopSkills

	header := titleStyle.Render("Top skills")
	if len(skills) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header, "", mutedStyle.Render("  No skill transactions yet"),
			),
		)
	}

	// Bars scale against the strongest skill so the top entry is always full.
	maxAmount := skills[0].Amount
	barWidth := min(w-34, 40)
	if barWidth < 10 {
		barWidth = 10
	}

	var rows []string
	for i, sk := range skills {
		filled := 0
		if maxAmount > 0 {
			filled = int(sk.Amount / maxAmount * float64(barWidth))
		}
		if filled > barWidth {
			filled = barWidth
		}
		bar := skillBarStyle.Render(strings.Repeat("█", filled)) +
			skillBarEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
		rows = append(rows, fmt.Sprintf("  %d. %-16s %s %s",
			i+1, sk.Name, bar, mutedStyle.Render(fmt.Sprintf("%.0f", sk.Amount))))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", strings.Join(rows, "\n"),
		),
	)
}

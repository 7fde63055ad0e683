package tui

import (
	"fmt"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/otienod/zonedash/internal/profile"
)

type xpModel struct {
	width  int
	height int

	stats *profile.ProfileStatistics
	chart tslc.Model
}

func newXPModel() xpModel {
	return xpModel{
		chart: tslc.New(60, 12),
	}
}

func (x *xpModel) setSize(w, h int) {
	x.width = w
	x.height = h
	if x.stats != nil {
		x.buildChart()
	}
}

func (x *xpModel) setStats(stats *profile.ProfileStatistics, _ bool, _ time.Time) {
	x.stats = stats
	x.buildChart()
}

func (x *xpModel) buildChart() {
	chartWidth := x.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if x.height > 30 {
		chartHeight = 16
	}

	x.chart = tslc.New(chartWidth, chartHeight)
	x.chart.SetStyle(skillBarStyle)
	for _, p := range x.stats.XPTimeline {
		x.chart.Push(tslc.TimePoint{Time: p.When, Value: p.Cumulative})
	}
	x.chart.DrawBraille()
}

func (x xpModel) view() string {
	w := x.width - 4
	if x.stats == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No data yet. Press r to refresh."))
	}
	s := x.stats

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Cumulative XP"), "  ",
		accentStyle.Render(formatXP(s.TotalXP)),
	)

	var body string
	if len(s.XPTimeline) == 0 {
		body = mutedStyle.Render("  No XP transactions recorded")
	} else {
		first := s.XPTimeline[0]
		last := s.XPTimeline[len(s.XPTimeline)-1]
		span := mutedStyle.Render(fmt.Sprintf("%s — %s, %d transactions",
			formatDate(first.When), formatDate(last.When), len(s.XPTimeline)))
		body = lipgloss.JoinVertical(lipgloss.Left, span, "", x.chart.View())
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", body, "", x.renderBreakdown(),
		),
	)
}

func (x xpModel) renderBreakdown() string {
	s := x.stats
	var rows []string
	rows = append(rows, titleStyle.Render("By category"))
	if len(s.XPByCategory) == 0 {
		rows = append(rows, mutedStyle.Render("  No XP recorded"))
		return strings.Join(rows, "\n")
	}
	for _, name := range sortedCategories(s.XPByCategory) {
		amount := s.XPByCategory[name]
		share := 0.0
		if s.TotalXP > 0 {
			share = amount / s.TotalXP * 100
		}
		rows = append(rows, fmt.Sprintf("  %-14s %12s  %s",
			name,
			accentStyle.Render(formatXP(amount)),
			mutedStyle.Render(fmt.Sprintf("%5.1f%%", share)),
		))
	}
	return strings.Join(rows, "\n")
}

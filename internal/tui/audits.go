package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/otienod/zonedash/internal/profile"
)

type auditsModel struct {
	width  int
	height int

	stats *profile.ProfileStatistics
	chart barchart.Model
}

func newAuditsModel() auditsModel {
	return auditsModel{
		chart: barchart.New(40, 10),
	}
}

func (a *auditsModel) setSize(w, h int) {
	a.width = w
	a.height = h
	if a.stats != nil {
		a.buildChart()
	}
}

func (a *auditsModel) setStats(stats *profile.ProfileStatistics, _ bool, _ time.Time) {
	a.stats = stats
	a.buildChart()
}

func (a *auditsModel) buildChart() {
	chartWidth := min(a.width-8, 40)
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if a.height > 30 {
		chartHeight = 14
	}

	a.chart = barchart.New(chartWidth, chartHeight)
	au := a.stats.Audits
	a.chart.PushAll([]barchart.BarData{
		{
			Label: "Done",
			Values: []barchart.BarValue{
				{Name: "done", Value: au.Done.Amount, Style: lipgloss.NewStyle().Foreground(colorPrimary)},
			},
		},
		{
			Label: "Received",
			Values: []barchart.BarValue{
				{Name: "received", Value: au.Received.Amount, Style: lipgloss.NewStyle().Foreground(colorSecondary)},
			},
		},
	})
	a.chart.Draw()
}

func (a auditsModel) view() string {
	w := a.width - 4
	if a.stats == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No data yet. Press r to refresh."))
	}
	au := a.stats.Audits

	ratio := au.RatioString()
	ratioStyle := successStyle
	if !au.HasRatio {
		ratioStyle = mutedStyle
	} else if au.Ratio < 1 {
		ratioStyle = warningStyle
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Audit ratio"), "  ", ratioStyle.Render(ratio),
	)

	table := a.renderTable()

	var open string
	if a.stats.OpenAudits > 0 {
		open = warningStyle.Render(fmt.Sprintf("%d audit(s) still open", a.stats.OpenAudits))
	} else {
		open = mutedStyle.Render("No open audits")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", a.chart.View(), "", table, "", open,
		),
	)
}

func (a auditsModel) renderTable() string {
	au := a.stats.Audits
	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-10s %8s %14s", "", "Count", "XP")),
		fmt.Sprintf("  %-10s %8s %14s", "Done", au.Done.CountString(), formatXP(au.Done.Amount)),
		fmt.Sprintf("  %-10s %8s %14s", "Received", au.Received.CountString(), formatXP(au.Received.Amount)),
	}
	return strings.Join(rows, "\n")
}

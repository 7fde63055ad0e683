package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/otienod/zonedash/internal/profile"
)

type progressModel struct {
	width  int
	height int

	stats *profile.ProfileStatistics
	spark sparkline.Model
}

func newProgressModel() progressModel {
	return progressModel{
		spark: sparkline.New(60, 4),
	}
}

func (p *progressModel) setSize(w, h int) {
	p.width = w
	p.height = h
	if p.stats != nil {
		p.buildSpark()
	}
}

func (p *progressModel) setStats(stats *profile.ProfileStatistics, _ bool, _ time.Time) {
	p.stats = stats
	p.buildSpark()
}

func (p *progressModel) buildSpark() {
	sparkWidth := p.width - 8
	if sparkWidth < 20 {
		sparkWidth = 20
	}

	p.spark = sparkline.New(sparkWidth, 4)
	for _, gp := range p.stats.GradeTimeline {
		p.spark.Push(gp.Grade)
	}
	p.spark.Draw()
}

func (p progressModel) view() string {
	w := p.width - 4
	if p.stats == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No data yet. Press r to refresh."))
	}
	timeline := p.stats.GradeTimeline

	header := titleStyle.Render("Project grades")
	if len(timeline) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header, "", mutedStyle.Render("  No graded projects yet"),
			),
		)
	}

	first := timeline[0]
	last := timeline[len(timeline)-1]
	span := mutedStyle.Render(fmt.Sprintf("%s — %s", formatDate(first.When), formatDate(last.When)))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, span, "", p.spark.View(), "", p.renderRecent(),
		),
	)
}

// renderRecent lists the latest grades, newest first.
func (p progressModel) renderRecent() string {
	timeline := p.stats.GradeTimeline
	limit := 10
	if p.height > 34 {
		limit = 15
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-32s %8s", "Date", "Project", "Grade")))
	shown := 0
	for i := len(timeline) - 1; i >= 0 && shown < limit; i-- {
		gp := timeline[i]
		grade := fmt.Sprintf("%.2f", gp.Grade)
		style := successStyle
		if gp.Grade < 1 {
			style = errorStyle
		}
		name := gp.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		rows = append(rows, fmt.Sprintf("  %-14s %-32s %s",
			formatDate(gp.When), name, style.Render(fmt.Sprintf("%8s", grade))))
		shown++
	}
	return strings.Join(rows, "\n")
}

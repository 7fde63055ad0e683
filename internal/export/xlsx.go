package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/otienod/zonedash/internal/profile"
)

// ToXLSX writes a workbook with a Summary sheet plus one sheet each
// for the XP timeline and the skill ranking.
func ToXLSX(stats *profile.ProfileStatistics, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)

	rows := [][]any{
		{"Login", stats.Login},
		{"Total XP", stats.TotalXP},
		{"Audit ratio", stats.Audits.RatioString()},
		{"Audits done", stats.Audits.Done.CountString(), stats.Audits.Done.Amount},
		{"Audits received", stats.Audits.Received.CountString(), stats.Audits.Received.Amount},
		{"Open audits", stats.OpenAudits},
		{},
		{"Category", "XP"},
	}
	for _, name := range categoryNames(stats.XPByCategory) {
		rows = append(rows, []any{name, stats.XPByCategory[name]})
	}
	if err := writeRows(f, summary, rows); err != nil {
		return err
	}

	const timeline = "XP Timeline"
	if _, err := f.NewSheet(timeline); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	tlRows := [][]any{{"Date", "Amount", "Cumulative"}}
	for _, p := range stats.XPTimeline {
		tlRows = append(tlRows, []any{p.When.Format(time.RFC3339), p.Amount, p.Cumulative})
	}
	if err := writeRows(f, timeline, tlRows); err != nil {
		return err
	}

	const skills = "Skills"
	if _, err := f.NewSheet(skills); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	skRows := [][]any{{"Skill", "Amount"}}
	for _, sk := range stats.TopSkills {
		skRows = append(skRows, []any{sk.Name, sk.Amount})
	}
	if err := writeRows(f, skills, skRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx file: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

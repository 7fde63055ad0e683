package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/otienod/zonedash/internal/profile"
)

// ToCSV writes the XP timeline as rows, with summary facets
// (categories, audits, skills) in trailing sections.
func ToCSV(stats *profile.ProfileStatistics, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Amount", "Cumulative XP"}); err != nil {
		return err
	}
	for _, p := range stats.XPTimeline {
		row := []string{
			p.When.Format(time.RFC3339),
			formatAmount(p.Amount),
			formatAmount(p.Cumulative),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Write([]string{})
	w.Write([]string{"Category", "XP"})
	for _, name := range categoryNames(stats.XPByCategory) {
		w.Write([]string{name, formatAmount(stats.XPByCategory[name])})
	}

	w.Write([]string{})
	w.Write([]string{"Audits", "Count", "Amount"})
	w.Write([]string{"Done", stats.Audits.Done.CountString(), formatAmount(stats.Audits.Done.Amount)})
	w.Write([]string{"Received", stats.Audits.Received.CountString(), formatAmount(stats.Audits.Received.Amount)})
	w.Write([]string{"Ratio", stats.Audits.RatioString(), ""})

	w.Write([]string{})
	w.Write([]string{"Skill", "Amount"})
	for _, sk := range stats.TopSkills {
		w.Write([]string{sk.Name, formatAmount(sk.Amount)})
	}

	return w.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

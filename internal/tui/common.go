package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/otienod/zonedash/internal/profile"
	"github.com/otienod/zonedash/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewOverview viewState = iota
	viewXP
	viewAudits
	viewSkills
	viewProgress
)

var viewNames = []string{"Overview", "XP", "Audits", "Skills", "Progress"}

// --- Messages ---

// sessionMsg carries the stored session lookup done at startup.
type sessionMsg struct {
	session *store.Session
	err     error
}

// loginDoneMsg reports the outcome of the signin exchange.
type loginDoneMsg struct {
	token string
	login string
	err   error
}

// statsMsg delivers a freshly computed (or cached) statistics value to
// the views. Views receive it read-only.
type statsMsg struct {
	stats     *profile.ProfileStatistics
	fromCache bool
	takenAt   time.Time
	err       error
}

// loggedOutMsg is emitted after the session has been cleared.
type loggedOutMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatXP renders an XP amount the way the platform does, in kB.
func formatXP(amount float64) string {
	return fmt.Sprintf("%.2f kB", amount/1000)
}

func formatDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}

// sortedCategories returns category names in a stable display order.
func sortedCategories(byCategory map[string]float64) []string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

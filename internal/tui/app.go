package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/otienod/zonedash/internal/api"
	"github.com/otienod/zonedash/internal/config"
	"github.com/otienod/zonedash/internal/export"
	"github.com/otienod/zonedash/internal/profile"
	"github.com/otienod/zonedash/internal/store"
)

// snapshotKeep bounds how much history the snapshot table retains per login.
const snapshotKeep = 20

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	client *api.Client
	cfg    config.Config
	log    *logrus.Entry

	width  int
	height int

	loggedIn bool
	login    string
	token    string
	fetching bool

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	loginForm loginModel
	overview  overviewModel
	xp        xpModel
	audits    auditsModel
	skills    skillsModel
	progress  progressModel

	stats *profile.ProfileStatistics

	spinner spinner.Model
	help    help.Model
	status  string
}

func NewApp(s *store.Store, client *api.Client, cfg config.Config, log *logrus.Entry) App {
	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return App{
		store:      s,
		client:     client,
		cfg:        cfg,
		log:        log,
		activeView: viewOverview,
		loginForm:  newLoginModel(client),
		overview:   newOverviewModel(),
		xp:         newXPModel(),
		audits:     newAuditsModel(),
		skills:     newSkillsModel(),
		progress:   newProgressModel(),
		spinner:    sp,
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.checkSession(), a.loginForm.init())
}

// checkSession looks for a stored session so a restart does not ask
// for credentials again.
func (a App) checkSession() tea.Cmd {
	return func() tea.Msg {
		session, err := a.store.GetSession()
		if err != nil {
			if errors.Is(err, store.ErrNoSession) {
				return sessionMsg{}
			}
			return sessionMsg{err: err}
		}
		return sessionMsg{session: session}
	}
}

// fetchStats pulls the profile from the platform, computes the
// statistics and persists a snapshot. On network failure it falls back
// to the latest stored snapshot so the dashboard still renders.
func (a App) fetchStats() tea.Cmd {
	st, client, cfg, log := a.store, a.client, a.cfg, a.log
	token, login := a.token, a.login
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()

		raw, err := client.FetchProfile(ctx, token, cfg.Campus)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return statsMsg{err: err}
			}
			log.WithError(err).Warn("fetch failed, trying cached snapshot")
			snap, serr := st.LatestSnapshot(login)
			if serr != nil {
				return statsMsg{err: err}
			}
			return statsMsg{stats: snap.Stats, fromCache: true, takenAt: snap.TakenAt}
		}

		stats := profile.Compute(raw, profile.ComputeOptions{
			Matchers: profile.DefaultMatchers(cfg.Campus),
		})
		if _, err := st.SaveSnapshot(stats.Login, stats); err != nil {
			log.WithError(err).Warn("snapshot save failed")
		} else if err := st.PruneSnapshots(stats.Login, snapshotKeep); err != nil {
			log.WithError(err).Warn("snapshot prune failed")
		}
		return statsMsg{stats: stats, takenAt: time.Now()}
	}
}

func (a App) logout() tea.Cmd {
	st := a.store
	return func() tea.Msg {
		if err := st.ClearSession(); err != nil {
			return statusMsg{text: fmt.Sprintf("Logout error: %v", err), isError: true}
		}
		return loggedOutMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.loginForm.setSize(a.width, a.height)
		a.overview.setSize(a.width, contentHeight)
		a.xp.setSize(a.width, contentHeight)
		a.audits.setSize(a.width, contentHeight)
		a.skills.setSize(a.width, contentHeight)
		a.progress.setSize(a.width, contentHeight)
		return a, nil

	case sessionMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Session error: %v", msg.err)
			return a, nil
		}
		if msg.session == nil {
			return a, nil // stay on login
		}
		a.loggedIn = true
		a.token = msg.session.Token
		a.login = msg.session.Login
		a.fetching = true
		return a, tea.Batch(a.fetchStats(), a.spinner.Tick)

	case loginDoneMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.loginForm, cmd = a.loginForm.reset(msg.err.Error())
			return a, cmd
		}
		a.loggedIn = true
		a.token = msg.token
		a.login = msg.login
		if err := a.store.SaveSession(msg.token, msg.login); err != nil {
			a.log.WithError(err).Warn("session save failed")
		}
		a.fetching = true
		return a, tea.Batch(a.fetchStats(), a.spinner.Tick)

	case statsMsg:
		a.fetching = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				// Token expired or revoked. Back to the login form.
				_ = a.store.ClearSession()
				a.loggedIn = false
				a.token = ""
				var cmd tea.Cmd
				a.loginForm, cmd = a.loginForm.reset("session expired, sign in again")
				return a, cmd
			}
			a.status = fmt.Sprintf("Fetch error: %v", msg.err)
			return a, nil
		}
		a.stats = msg.stats
		a.login = msg.stats.Login
		a.overview.setStats(msg.stats, msg.fromCache, msg.takenAt)
		a.xp.setStats(msg.stats, msg.fromCache, msg.takenAt)
		a.audits.setStats(msg.stats, msg.fromCache, msg.takenAt)
		a.skills.setStats(msg.stats, msg.fromCache, msg.takenAt)
		a.progress.setStats(msg.stats, msg.fromCache, msg.takenAt)
		if msg.fromCache {
			a.status = "Offline: showing cached snapshot"
		} else {
			a.status = "Profile refreshed"
		}
		return a, nil

	case loggedOutMsg:
		a.loggedIn = false
		a.token = ""
		a.stats = nil
		a.status = ""
		var cmd tea.Cmd
		a.loginForm, cmd = a.loginForm.reset("")
		return a, cmd

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case spinner.TickMsg:
		if !a.fetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if !a.loggedIn {
			// ctrl+c still quits from the login screen; plain q may be
			// part of a password.
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.loginForm, cmd = a.loginForm.update(msg)
			return a, cmd
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			if a.fetching {
				return a, nil
			}
			a.fetching = true
			a.status = ""
			return a, tea.Batch(a.fetchStats(), a.spinner.Tick)
		case key.Matches(msg, keys.Export):
			if a.stats == nil {
				a.status = "Nothing to export yet"
				return a, nil
			}
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Logout):
			return a, a.logout()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewOverview
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewXP
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewAudits
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSkills
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewProgress
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}
		return a, nil
	}

	if !a.loggedIn {
		var cmd tea.Cmd
		a.loginForm, cmd = a.loginForm.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if !a.loggedIn {
		return a.loginForm.view()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewOverview:
		content = a.overview.view()
	case viewXP:
		content = a.xp.view()
	case viewAudits:
		content = a.audits.view()
	case viewSkills:
		content = a.skills.view()
	case viewProgress:
		content = a.progress.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("zonedash")
	if a.login != "" {
		title += mutedStyle.Render(" · " + a.login)
	}
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	right := ""
	if a.fetching {
		right = a.spinner.View() + accentStyle.Render(" fetching")
	} else if a.status != "" {
		right = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON", "XLSX"}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Format"))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	stats := a.stats
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		name := fmt.Sprintf("zonedash-%s-%s", stats.Login, dateStr)
		var path string
		var err error
		switch format {
		case 1:
			path = filepath.Join(home, name+".json")
			err = export.ToJSON(stats, path)
		case 2:
			path = filepath.Join(home, name+".xlsx")
			err = export.ToXLSX(stats, path)
		default:
			path = filepath.Join(home, name+".csv")
			err = export.ToCSV(stats, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/otienod/zonedash/internal/api"
)

type loginModel struct {
	client *api.Client
	width  int
	height int

	form    *huh.Form
	errText string

	// Field pointers survive value copies of the model.
	username *string
	password *string
}

func newLoginModel(client *api.Client) loginModel {
	username, password := "", ""
	m := loginModel{
		client:   client,
		username: &username,
		password: &password,
	}
	m.form = m.newForm()
	return m
}

func (l loginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username or email").Value(l.username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.password),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// reset clears the form for another attempt, keeping the username.
func (l loginModel) reset(errText string) (loginModel, tea.Cmd) {
	*l.password = ""
	l.errText = errText
	l.form = l.newForm()
	return l, l.form.Init()
}

func (l loginModel) init() tea.Cmd {
	return l.form.Init()
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		username, password := *l.username, *l.password
		client := l.client
		return l, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			token, err := client.SignIn(ctx, username, password)
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return loginDoneMsg{err: errors.New("invalid credentials")}
				}
				return loginDoneMsg{err: err}
			}
			return loginDoneMsg{token: token, login: username}
		}
	}

	return l, cmd
}

func (l loginModel) view() string {
	title := titleStyle.Render("Sign in")
	subtitle := mutedStyle.Render("Credentials are exchanged for a bearer token; only the token is stored.")

	parts := []string{title, subtitle, ""}
	if l.errText != "" {
		parts = append(parts, errorStyle.Render(l.errText), "")
	}
	parts = append(parts, l.form.View())

	w := min(l.width-4, 64)
	if w < 20 {
		w = 20
	}
	panel := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	if l.width > 0 && l.height > 0 {
		return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fragmede/tagterm/internal/api"
	"github.com/fragmede/tagterm/internal/auth"
	"github.com/fragmede/tagterm/internal/config"
	"github.com/fragmede/tagterm/internal/form"
	"github.com/fragmede/tagterm/internal/ui/authform"
	"github.com/fragmede/tagterm/internal/ui/home"
	"github.com/fragmede/tagterm/internal/ui/messages"
	"github.com/fragmede/tagterm/internal/ui/statusbar"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewAuth ViewType = iota
	ViewHome
)

var authTabs = []string{"Login", "Register"}

// App is the root Bubble Tea model.
type App struct {
	activeView ViewType

	authForm  authform.Model
	home      home.Model
	statusBar statusbar.Model

	cfg     config.Config
	client  *api.Client
	session *auth.Session
	log     *zap.Logger

	width  int
	height int
}

// NewApp creates the root application model, starting on the auth screen.
func NewApp(cfg config.Config, client *api.Client, session *auth.Session, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		activeView: ViewAuth,
		statusBar:  statusbar.New(client.BaseURL()),
		cfg:        cfg,
		client:     client,
		session:    session,
		log:        log,
	}
	a.authForm = a.newAuthForm()
	a.syncTabs()
	return a
}

func (a *App) newAuthForm() authform.Model {
	ctrl := form.New(a.client, a.session, a.log.Named("form"), form.Options{
		Catalog:        form.CatalogFor(a.cfg.Locale),
		RedirectDelay:  a.cfg.RedirectDelay,
		RequestTimeout: a.cfg.RequestTimeout,
	})
	m := authform.New(ctrl, a.lastUsername())
	m.SetSize(a.width, a.height-1)
	return m
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.authForm.Init(), a.tryRestoreSession())
}

// tryRestoreSession reads the saved token on the update loop; the session
// is only ever mutated there.
func (a *App) tryRestoreSession() tea.Cmd {
	ok, err := a.session.Load()
	if err != nil {
		a.log.Error("restoring session", zap.Error(err))
		a.statusBar.SetStatus("Could not read saved session", true)
		return nil
	}
	if !ok {
		return nil
	}
	restored := messages.SessionRestoredMsg{Username: a.session.Username, Token: a.session.Token}
	return func() tea.Msg { return restored }
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.statusBar.SetSize(msg.Width)
		a.authForm.SetSize(msg.Width, contentHeight)
		a.home.SetSize(msg.Width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, Keys.ForceQuit) {
			return a, tea.Quit
		}
		switch a.activeView {
		case ViewAuth:
			if msg.String() == "esc" {
				return a, tea.Quit
			}
		case ViewHome:
			switch {
			case key.Matches(msg, Keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, Keys.Refresh):
				a.statusBar.SetStatus("", false)
				return a, a.home.Refresh()
			case key.Matches(msg, Keys.Logout):
				return a, a.logout()
			}
		}

	case form.NavigateMsg:
		if msg.Target == form.RootTarget {
			return a, a.openHome(msg.Username, a.session.Token)
		}
		a.log.Warn("unknown navigation target", zap.String("target", msg.Target))
		return a, nil

	case messages.SessionRestoredMsg:
		if a.activeView == ViewAuth && a.authForm.Phase() == form.PhaseIdle {
			a.statusBar.SetStatus("Session restored", false)
			return a, a.openHome(msg.Username, msg.Token)
		}
		return a, nil

	case messages.LoggedOutMsg:
		if msg.Err != nil {
			// The local token is dropped either way.
			a.log.Warn("server logout failed", zap.Error(msg.Err))
		}
		if err := a.session.Clear(); err != nil {
			a.log.Error("clearing session", zap.Error(err))
			a.statusBar.SetStatus("Could not clear saved session", true)
		} else {
			a.statusBar.SetStatus("Logged out", false)
		}
		a.statusBar.SetUser("")
		a.activeView = ViewAuth
		a.authForm = a.newAuthForm()
		a.syncTabs()
		return a, a.authForm.Init()

	}

	// Route to active view.
	var cmd tea.Cmd
	switch a.activeView {
	case ViewAuth:
		a.authForm, cmd = a.authForm.Update(msg)
		cmds = append(cmds, cmd)
	case ViewHome:
		a.home, cmd = a.home.Update(msg)
		cmds = append(cmds, cmd)
		a.statusBar.SetUser(a.home.Username())
	}
	a.syncTabs()

	a.statusBar, cmd = a.statusBar.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.activeView {
	case ViewAuth:
		content = a.authForm.View()
	case ViewHome:
		content = a.home.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

// ActiveView reports which view is on screen.
func (a *App) ActiveView() ViewType {
	return a.activeView
}

func (a *App) openHome(username, token string) tea.Cmd {
	if username == "" {
		username = a.session.Username
	}
	if username == "" {
		// Opaque tokens carry no name.
		username = a.lastUsername()
	}
	if username != "" {
		if err := a.session.RememberUsername(username); err != nil {
			a.log.Warn("remembering username", zap.Error(err))
		}
	}
	a.activeView = ViewHome
	a.home = home.New(username, token, a.client, a.cfg.RequestTimeout)
	a.home.SetSize(a.width, a.height-1)
	a.statusBar.SetUser(username)
	a.syncTabs()
	return a.home.Init()
}

func (a *App) lastUsername() string {
	username, err := a.session.LastUsername()
	if err != nil {
		a.log.Warn("reading last username", zap.Error(err))
	}
	return username
}

func (a *App) logout() tea.Cmd {
	client := a.client
	token := a.session.Token
	timeout := a.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return messages.LoggedOutMsg{Err: client.Logout(ctx, token)}
	}
}

func (a *App) syncTabs() {
	if a.activeView == ViewHome {
		a.statusBar.SetTabs([]string{"Home"}, "Home")
		return
	}
	active := authTabs[0]
	if a.authForm.Mode() == form.ModeRegister {
		active = authTabs[1]
	}
	a.statusBar.SetTabs(authTabs, active)
}

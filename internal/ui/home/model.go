package home

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/fragmede/tagterm/internal/api"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).Padding(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// Fetcher loads the signed-in user's data.
type Fetcher interface {
	Profile(ctx context.Context, token string) (*api.Profile, error)
	Tags(ctx context.Context, token string) (map[string][]api.Tag, error)
}

// loadedMsg is stamped with the token it was fetched for so results from
// an earlier session are dropped.
type loadedMsg struct {
	token   string
	Profile *api.Profile
	Tags    map[string][]api.Tag
	Err     error
}

// Model is the landing view shown once signed in.
type Model struct {
	username string
	token    string
	client   Fetcher
	timeout  time.Duration
	profile  *api.Profile
	tags     map[string][]api.Tag
	loading  bool
	err      string
	width    int
	height   int
}

// New creates the home view for the session identified by token.
func New(username, token string, client Fetcher, timeout time.Duration) Model {
	return Model{
		username: username,
		token:    token,
		client:   client,
		timeout:  timeout,
		loading:  true,
	}
}

// Init loads the profile and tags.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Refresh reloads the profile and tags.
func (m *Model) Refresh() tea.Cmd {
	m.loading = true
	m.err = ""
	return m.load()
}

func (m Model) load() tea.Cmd {
	client, token, timeout := m.client, m.token, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := loadedMsg{token: token}
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := client.Profile(ctx, token)
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			msg.Profile = p
			return nil
		})
		g.Go(func() error {
			tags, err := client.Tags(ctx, token)
			if err != nil {
				return fmt.Errorf("loading tags: %w", err)
			}
			msg.Tags = tags
			return nil
		})
		msg.Err = g.Wait()
		return msg
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Username returns the signed-in user, preferring the server's spelling.
func (m Model) Username() string {
	if m.profile != nil && m.profile.Username != "" {
		return m.profile.Username
	}
	return m.username
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.token != m.token {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		m.err = ""
		m.profile = msg.Profile
		m.tags = msg.Tags
	}
	return m, nil
}

// View renders the profile and tags.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Welcome, " + m.Username()))
	sb.WriteString("\n")

	switch {
	case m.loading:
		sb.WriteString(dimStyle.Render("Loading profile..."))
	case m.err != "":
		sb.WriteString(errorStyle.Render(m.err))
	case m.profile != nil:
		row := func(label, value string) {
			if value == "" {
				value = "-"
			}
			sb.WriteString(labelStyle.Render(label+": ") + valueStyle.Render(value) + "\n")
		}
		row("Email", m.profile.Email)
		row("Member since", m.profile.CreatedAt)
		row("Last login", m.profile.LastLogin)
		if m.profile.IsAdmin {
			row("Role", "admin")
		}
		sb.WriteString("\n")
		sb.WriteString(m.tagsView())
	}

	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("r refresh | o log out | q quit"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

func (m Model) tagsView() string {
	if len(m.tags) == 0 {
		return dimStyle.Render("No tags yet.")
	}
	dims := make([]string, 0, len(m.tags))
	for d := range m.tags {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	var sb strings.Builder
	for _, d := range dims {
		sb.WriteString(labelStyle.Render(d))
		sb.WriteString("\n")
		for _, t := range m.tags[d] {
			sb.WriteString(fmt.Sprintf("  %s %s\n", valueStyle.Render(t.TagName),
				dimStyle.Render(fmt.Sprintf("(%.0f%%)", t.Confidence*100))))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

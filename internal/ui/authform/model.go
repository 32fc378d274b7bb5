package authform

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/tagterm/internal/api"
	"github.com/fragmede/tagterm/internal/form"
)

var (
	accent = lipgloss.Color("#7D56F4")

	focusedStyle = lipgloss.NewStyle().Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
	titleStyle   = lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(1, 0)

	activeTabStyle = lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#444444")).
				Foreground(lipgloss.Color("#CCCCCC")).
				Padding(0, 2)

	bannerStyles = map[form.Kind]lipgloss.Style{
		form.KindNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		form.KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32")),
		form.KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
)

var tabLabels = map[form.Mode]string{
	form.ModeLogin:    "Login",
	form.ModeRegister: "Register",
}

type field struct {
	label string
	input textinput.Model
}

// Model is the login/register screen.
type Model struct {
	ctrl    form.Controller
	fields  map[form.Mode][]field
	focus   map[form.Mode]int
	spinner spinner.Model
	width   int
	height  int
}

// New creates the auth screen with the login form showing. username
// prefills both username fields.
func New(ctrl form.Controller, username string) Model {
	m := Model{
		ctrl: ctrl,
		fields: map[form.Mode][]field{
			form.ModeLogin: {
				{"Username", newInput("username", false)},
				{"Password", newInput("password", true)},
			},
			form.ModeRegister: {
				{"Username", newInput("username", false)},
				{"Password", newInput("password", true)},
				{"Confirm password", newInput("repeat password", true)},
				{"Email (optional)", newInput("you@example.com", false)},
			},
		},
		focus:   map[form.Mode]int{},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(focusedStyle)),
	}
	if username != "" {
		m.fields[form.ModeLogin][0].input.SetValue(username)
		m.fields[form.ModeRegister][0].input.SetValue(username)
		// Jump straight to the password.
		m.focus[form.ModeLogin] = 1
	}
	m.updateFocus()
	return m
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 30
	ti.CharLimit = 128
	if secret {
		ti.EchoMode = textinput.EchoPassword
	}
	return ti
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Phase reports where the current submission stands.
func (m Model) Phase() form.Phase {
	return m.ctrl.Phase()
}

// Banner returns the message shown under the form.
func (m Model) Banner() form.Banner {
	return m.ctrl.Banner()
}

// Busy reports whether a submission is in flight or navigation is pending.
func (m Model) Busy() bool {
	return m.ctrl.Busy()
}

// Mode returns the form currently shown.
func (m Model) Mode() form.Mode {
	return m.ctrl.Mode()
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SwitchMode changes tab and moves focus into the new form.
func (m *Model) SwitchMode(target form.Mode) tea.Cmd {
	m.ctrl.SwitchMode(target)
	return m.updateFocus()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+l":
			return m, m.SwitchMode(form.ModeLogin)
		case "ctrl+r":
			return m, m.SwitchMode(form.ModeRegister)
		case "ctrl+t":
			return m, m.SwitchMode(m.ctrl.Mode().Next())
		case "tab", "down":
			n := len(m.fields[m.ctrl.Mode()])
			m.focus[m.ctrl.Mode()] = (m.focus[m.ctrl.Mode()] + 1) % n
			return m, m.updateFocus()
		case "shift+tab", "up":
			n := len(m.fields[m.ctrl.Mode()])
			m.focus[m.ctrl.Mode()] = (m.focus[m.ctrl.Mode()] + n - 1) % n
			return m, m.updateFocus()
		case "enter":
			return m, m.submit()
		}

	case form.ResultMsg:
		cmd := m.ctrl.HandleResult(msg)
		if m.ctrl.Phase() == form.PhaseError {
			m.clearSecrets()
		}
		return m, cmd

	case spinner.TickMsg:
		if m.ctrl.Phase() != form.PhaseSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	mode := m.ctrl.Mode()
	idx := m.focus[mode]
	var cmd tea.Cmd
	m.fields[mode][idx].input, cmd = m.fields[mode][idx].input.Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	if m.ctrl.Busy() {
		return nil
	}
	fs := m.fields[m.ctrl.Mode()]
	creds := api.Credentials{
		Username: fs[0].input.Value(),
		Password: fs[1].input.Value(),
	}
	if creds.Username == "" || creds.Password == "" {
		m.ctrl.ShowMessage(m.ctrl.Catalog().FieldsRequired, form.KindError)
		return nil
	}

	var cmd tea.Cmd
	switch m.ctrl.Mode() {
	case form.ModeLogin:
		cmd = m.ctrl.SubmitLogin(creds)
	case form.ModeRegister:
		if email := fs[3].input.Value(); email != "" {
			creds.Email = &email
		}
		cmd = m.ctrl.SubmitRegister(creds, fs[2].input.Value())
	}
	if cmd == nil {
		return nil
	}
	m.ctrl.ClearMessage()
	return tea.Batch(cmd, m.spinner.Tick)
}

// clearSecrets empties the confirm field after a failed registration so the
// passwords are re-entered together.
func (m *Model) clearSecrets() {
	if m.ctrl.Mode() == form.ModeRegister {
		m.fields[form.ModeRegister][2].input.SetValue("")
	}
}

func (m *Model) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	for _, mode := range form.Modes {
		for i := range m.fields[mode] {
			if mode == m.ctrl.Mode() && i == m.focus[mode] {
				cmd = m.fields[mode][i].input.Focus()
				continue
			}
			m.fields[mode][i].input.Blur()
		}
	}
	return cmd
}

// View renders the tab row, the visible form and the banner.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Tag System"))
	sb.WriteString("\n")

	var tabs []string
	for _, mode := range form.Modes {
		style := inactiveTabStyle
		if m.ctrl.TabActive(mode) {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(tabLabels[mode]))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	sb.WriteString("\n\n")

	for _, mode := range form.Modes {
		if !m.ctrl.FormVisible(mode) {
			continue
		}
		for _, f := range m.fields[mode] {
			sb.WriteString(labelStyle.Render(f.label + ":"))
			sb.WriteString("\n")
			sb.WriteString(f.input.View())
			sb.WriteString("\n\n")
		}
	}

	if b := m.ctrl.Banner(); !b.Empty() {
		sb.WriteString(bannerStyles[b.Kind].Render(b.Text))
		sb.WriteString("\n\n")
	}

	switch m.ctrl.Phase() {
	case form.PhaseSubmitting:
		sb.WriteString(m.spinner.View() + " Contacting server...")
	case form.PhaseSuccess:
		sb.WriteString(hintStyle.Render("Signed in"))
	default:
		sb.WriteString(focusedStyle.Render("Enter") + hintStyle.Render(" submit  ") +
			focusedStyle.Render("Tab") + hintStyle.Render(" next field  ") +
			focusedStyle.Render("Ctrl+T") + hintStyle.Render(" switch form  ") +
			focusedStyle.Render("Esc") + hintStyle.Render(" quit"))
	}

	content := sb.String()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flicker/internal/tui/styles"
)

// LoginMode distinguishes sign-in from sign-up
type LoginMode int

const (
	ModeSignIn LoginMode = iota
	ModeSignUp
)

// Credentials is what the login modal submits
type Credentials struct {
	Mode     LoginMode
	Username string
	Email    string
	Password string
}

// LoginModal collects credentials for sign-in or sign-up. Tab cycles
// fields, ctrl+r flips mode, enter submits.
type LoginModal struct {
	visible  bool
	mode     LoginMode
	focus    int
	username textinput.Model
	email    textinput.Model
	password textinput.Model
	errText  string
	busy     bool
}

// NewLoginModal creates a new login modal
func NewLoginModal() LoginModal {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Width = 32
	username.Prompt = ""

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Width = 32
	email.Prompt = ""

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 32
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModal{
		username: username,
		email:    email,
		password: password,
	}
}

// Show displays the modal in sign-in mode with cleared fields
func (m *LoginModal) Show() {
	m.visible = true
	m.mode = ModeSignIn
	m.focus = 0
	m.errText = ""
	m.busy = false
	m.username.SetValue("")
	m.email.SetValue("")
	m.password.SetValue("")
	m.email.Focus()
}

// Hide dismisses the modal
func (m *LoginModal) Hide() {
	m.visible = false
	m.email.Blur()
	m.password.Blur()
	m.username.Blur()
}

// IsVisible returns whether the modal is shown
func (m LoginModal) IsVisible() bool {
	return m.visible
}

// SetError shows a failure message and re-enables input
func (m *LoginModal) SetError(text string) {
	m.errText = text
	m.busy = false
}

// SetBusy disables submission while a request is in flight
func (m *LoginModal) SetBusy(v bool) {
	m.busy = v
}

// fields returns the focusable inputs for the current mode
func (m *LoginModal) fields() []*textinput.Model {
	if m.mode == ModeSignUp {
		return []*textinput.Model{&m.username, &m.email, &m.password}
	}
	return []*textinput.Model{&m.email, &m.password}
}

func (m *LoginModal) setFocus(i int) {
	fields := m.fields()
	if i < 0 {
		i = len(fields) - 1
	}
	if i >= len(fields) {
		i = 0
	}
	m.focus = i
	for j, f := range fields {
		if j == i {
			f.Focus()
		} else {
			f.Blur()
		}
	}
}

// toggleMode flips sign-in and sign-up
func (m *LoginModal) toggleMode() {
	if m.mode == ModeSignIn {
		m.mode = ModeSignUp
	} else {
		m.mode = ModeSignIn
	}
	m.errText = ""
	m.setFocus(0)
}

// Update handles input events, returns (modal, cmd, credentials, submitted)
func (m LoginModal) Update(msg tea.Msg) (LoginModal, tea.Cmd, Credentials, bool) {
	if !m.visible {
		return m, nil, Credentials{}, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.busy {
				return m, nil, Credentials{}, false
			}
			creds := Credentials{
				Mode:     m.mode,
				Username: strings.TrimSpace(m.username.Value()),
				Email:    strings.TrimSpace(m.email.Value()),
				Password: m.password.Value(),
			}
			if creds.Email == "" || creds.Password == "" {
				m.errText = "email and password are required"
				return m, nil, Credentials{}, false
			}
			if creds.Mode == ModeSignUp && creds.Username == "" {
				m.errText = "username is required"
				return m, nil, Credentials{}, false
			}
			m.busy = true
			m.errText = ""
			return m, nil, creds, true
		case "esc":
			m.Hide()
			return m, nil, Credentials{}, false
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil, Credentials{}, false
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil, Credentials{}, false
		case "ctrl+r":
			m.toggleMode()
			return m, nil, Credentials{}, false
		}
	}

	var cmd tea.Cmd
	fields := m.fields()
	*fields[m.focus], cmd = fields[m.focus].Update(msg)
	return m, cmd, Credentials{}, false
}

// View renders the login modal
func (m LoginModal) View() string {
	if !m.visible {
		return ""
	}

	title := "Sign in"
	if m.mode == ModeSignUp {
		title = "Create account"
	}

	rows := []string{styles.ModalTitleStyle.Render(title)}
	if m.mode == ModeSignUp {
		rows = append(rows, m.username.View())
	}
	rows = append(rows, m.email.View(), m.password.View())

	if m.busy {
		rows = append(rows, "", styles.DimStyle.Render("signing in..."))
	} else if m.errText != "" {
		rows = append(rows, "", styles.ErrorStyle.Render(m.errText))
	}

	hint := styles.HelpKeyStyle.Render("ctrl+r") + styles.HelpDescStyle.Render(" switch mode  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" cancel")
	rows = append(rows, "", hint)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.ModalStyle.Render(content)
}

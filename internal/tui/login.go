package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/i18n"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
	authVerify
)

type loginResultMsg struct{ err error }

type registerResultMsg struct {
	email string
	err   error
}

type verifyResultMsg struct{ err error }

type authField struct {
	key     string // label key
	secret  bool
	options []string // cycled with h/l when set
}

var authForms = map[authMode][]authField{
	authLogin: {
		{key: "email"},
		{key: "password", secret: true},
	},
	authRegister: {
		{key: "fullName"},
		{key: "email"},
		{key: "password", secret: true},
		{key: "userType", options: []string{string(domain.RoleBuyer), string(domain.RoleSeller)}},
		{key: "language", options: []string{string(domain.LangEnglish), string(domain.LangArabic)}},
	},
	authVerify: {
		{key: "email"},
		{key: "verificationCode"},
	},
}

// authModel is the signed-out screen: login, register and email
// verification forms.
type authModel struct {
	sess   *session.Manager
	prefs  *i18n.Preferences
	mode   authMode
	values map[string]string
	focus  int
	busy   bool
	err    string
	notice string
	width  int
	height int
}

func newAuthModel(sess *session.Manager, prefs *i18n.Preferences) authModel {
	m := authModel{sess: sess, prefs: prefs}
	m.setMode(authLogin)
	return m
}

func (m *authModel) setMode(mode authMode) {
	email := ""
	if m.values != nil {
		email = m.values["email"]
	}
	m.mode = mode
	m.focus = 0
	m.err = ""
	m.values = map[string]string{"email": email}
	for _, f := range authForms[mode] {
		if len(f.options) > 0 {
			m.values[f.key] = f.options[0]
		}
	}
	if mode == authRegister && m.prefs != nil {
		m.values["language"] = string(m.prefs.Language())
	}
}

func (m authModel) fields() []authField { return authForms[m.mode] }

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
		}

	case registerResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.setMode(authVerify)
		m.values["email"] = msg.email
		m.focus = 1
		m.notice = m.prefs.T("registerSuccess") + " · check your email for the code"

	case verifyResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.setMode(authLogin)
		m.focus = 1
		m.notice = fmt.Sprintf("email verified · %d credits added", domain.VerificationBonus)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	fields := m.fields()
	n := len(fields)
	key := msg.String()
	m.err = ""

	switch key {
	case "ctrl+r":
		if m.mode == authRegister {
			m.setMode(authLogin)
		} else {
			m.setMode(authRegister)
		}
		m.notice = ""
		return m, nil
	case "ctrl+e":
		if m.mode == authVerify {
			m.setMode(authLogin)
		} else {
			m.setMode(authVerify)
		}
		m.notice = ""
		return m, nil
	case "ctrl+t":
		m.prefs.Toggle()
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % n
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
		return m, nil
	case "enter":
		if m.focus < n-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	}

	f := fields[m.focus]
	if len(f.options) > 0 {
		if key == "h" || key == "l" || key == "left" || key == "right" {
			m.values[f.key] = cycleOption(f.options, m.values[f.key], key == "l" || key == "right")
		}
		return m, nil
	}
	m.values[f.key] = editRune(m.values[f.key], key)
	return m, nil
}

func cycleOption(options []string, current string, forward bool) string {
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(options)
	} else {
		idx = (idx - 1 + len(options)) % len(options)
	}
	return options[idx]
}

func (m authModel) submit() (authModel, tea.Cmd) {
	for _, f := range m.fields() {
		if strings.TrimSpace(m.values[f.key]) == "" {
			m.err = m.prefs.T(f.key) + ": " + m.prefs.T("required")
			return m, nil
		}
	}
	email := strings.TrimSpace(m.values["email"])
	sess := m.sess
	m.busy = true
	m.notice = ""

	switch m.mode {
	case authRegister:
		req := client.RegisterRequest{
			Email:    email,
			Password: m.values["password"],
			FullName: strings.TrimSpace(m.values["fullName"]),
			UserType: domain.Role(m.values["userType"]),
			Language: domain.Language(m.values["language"]),
		}
		return m, func() tea.Msg {
			return registerResultMsg{email: email, err: sess.Register(context.Background(), req)}
		}
	case authVerify:
		code := strings.TrimSpace(m.values["verificationCode"])
		return m, func() tea.Msg {
			return verifyResultMsg{err: sess.VerifyEmail(context.Background(), email, code)}
		}
	default:
		password := m.values["password"]
		return m, func() tea.Msg {
			return loginResultMsg{err: sess.Login(context.Background(), email, password)}
		}
	}
}

func (m authModel) helpKeys() string {
	entries := []string{helpEntry("tab", "next"), helpEntry("enter", "submit")}
	switch m.mode {
	case authLogin:
		entries = append(entries, helpEntry("ctrl+r", m.prefs.T("register")), helpEntry("ctrl+e", m.prefs.T("verifyEmail")))
	case authRegister:
		entries = append(entries, helpEntry("h/l", "choose"), helpEntry("ctrl+r", m.prefs.T("login")))
	case authVerify:
		entries = append(entries, helpEntry("ctrl+e", m.prefs.T("login")))
	}
	entries = append(entries, helpEntry("ctrl+t", m.prefs.T("language")), helpEntry("ctrl+c", "quit"))
	return helpBar(entries...)
}

func (m authModel) View() string {
	var b strings.Builder

	title := map[authMode]string{
		authLogin:    m.prefs.T("signIn"),
		authRegister: m.prefs.T("createAccount"),
		authVerify:   m.prefs.T("verifyEmail"),
	}[m.mode]
	fmt.Fprintf(&b, " %s %s\n", dimStyle.Render(m.prefs.T("welcome")), titleStyle.Render("Leemaz"))
	b.WriteString(" " + metaStyle.Render(m.prefs.T("subtitle")) + "\n\n")
	b.WriteString(" " + selectedStyle.Render(title) + "\n\n")

	for i, f := range m.fields() {
		value := m.values[f.key]
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		switch {
		case len(f.options) > 0:
			value = accentStyle.Render(m.prefs.T(optionLabel(f.key, value))) + "  " + metaStyle.Render("(h/l)")
		case f.secret:
			value = maskSecret(value)
		}
		if i == m.focus && len(f.options) == 0 {
			value += accentStyle.Render("█")
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(m.prefs.T(f.key)), value)
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case m.notice != "":
		b.WriteString(" " + successStyle.Render(m.notice) + "\n")
	}
	if m.mode == authLogin {
		b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("demo: %s / %s", session.DemoEmail, session.DemoPassword)) + "\n")
	}
	return b.String()
}

// optionLabel maps a stored option value to its label key.
func optionLabel(field, value string) string {
	if field == "language" {
		return languageKey(domain.Language(value))
	}
	return value
}

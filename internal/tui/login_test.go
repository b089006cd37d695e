package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/i18n"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

func newTestAuth(t *testing.T) (authModel, *session.Manager) {
	t.Helper()
	api := client.New("http://127.0.0.1:0", "")
	sess := session.NewManager(api, store.NewMemory(), nil, session.Config{})
	return newAuthModel(sess, i18n.New(store.NewMemory(), nil)), sess
}

func authType(m authModel, text string) authModel {
	for _, r := range text {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}

func TestAuthRequiresEveryField(t *testing.T) {
	m, _ := newTestAuth(t)
	m = authType(m, "a@b.c")
	m, _ = m.Update(keyMsg("enter"))
	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil || m.busy {
		t.Fatal("empty password should not submit")
	}
	if !strings.Contains(m.err, "required") {
		t.Errorf("err = %q", m.err)
	}
}

func TestAuthDemoLogin(t *testing.T) {
	m, sess := newTestAuth(t)
	m = authType(m, session.DemoEmail)
	m, _ = m.Update(keyMsg("tab"))
	m = authType(m, session.DemoPassword)
	if !strings.Contains(m.View(), strings.Repeat("•", len(session.DemoPassword))) {
		t.Error("password should render masked")
	}

	m, cmd := m.Update(keyMsg("enter"))
	if !m.busy || cmd == nil {
		t.Fatal("enter on the last field should submit")
	}
	msg := cmd().(loginResultMsg)
	if msg.err != nil {
		t.Fatalf("demo login: %v", msg.err)
	}
	if s := sess.Current(); s == nil || s.UserID != session.DemoUserID {
		t.Errorf("session = %+v", s)
	}
}

func TestAuthBusyIgnoresKeys(t *testing.T) {
	m, _ := newTestAuth(t)
	m.busy = true
	m, cmd := m.Update(keyMsg("x"))
	if cmd != nil || m.values["email"] != "" {
		t.Error("keys should be ignored while a request is in flight")
	}
	m, _ = m.Update(loginResultMsg{err: errors.New("login failed: nope")})
	if m.busy || m.err != "login failed: nope" {
		t.Errorf("busy = %v err = %q", m.busy, m.err)
	}
}

func TestAuthRegisterThenVerify(t *testing.T) {
	m, _ := newTestAuth(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.mode != authRegister {
		t.Fatal("ctrl+r should open the register form")
	}
	if m.values["userType"] != string(domain.RoleBuyer) || m.values["language"] != string(domain.LangEnglish) {
		t.Errorf("defaults = %v", m.values)
	}

	// cycle user type on its field
	m.focus = 3
	m, _ = m.Update(keyMsg("l"))
	if m.values["userType"] != string(domain.RoleSeller) {
		t.Errorf("userType = %q", m.values["userType"])
	}

	m, _ = m.Update(registerResultMsg{email: "new@leemaz.com"})
	if m.mode != authVerify || m.values["email"] != "new@leemaz.com" || m.focus != 1 {
		t.Fatalf("mode = %v values = %v focus = %d", m.mode, m.values, m.focus)
	}

	m, _ = m.Update(verifyResultMsg{})
	if m.mode != authLogin || m.values["email"] != "new@leemaz.com" {
		t.Fatalf("mode = %v values = %v", m.mode, m.values)
	}
	if !strings.Contains(m.notice, "100 credits") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestAuthRegisterErrorUsesServerDetail(t *testing.T) {
	m, _ := newTestAuth(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = m.Update(registerResultMsg{err: &client.HTTPError{StatusCode: 400, Message: "Email already registered"}})
	if m.mode != authRegister || m.err != "Email already registered" {
		t.Errorf("mode = %v err = %q", m.mode, m.err)
	}
}

func TestAuthLanguageToggleRelabels(t *testing.T) {
	m, _ := newTestAuth(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.prefs.IsRTL() {
		t.Fatal("ctrl+t should switch to Arabic")
	}
	if !strings.Contains(m.View(), m.prefs.T("signIn")) {
		t.Error("form should render Arabic labels")
	}
}

func TestCycleOption(t *testing.T) {
	opts := []string{"a", "b", "c"}
	if cycleOption(opts, "c", true) != "a" || cycleOption(opts, "a", false) != "c" || cycleOption(opts, "zz", true) != "b" {
		t.Error("cycleOption should wrap both ways and start from the first option")
	}
}

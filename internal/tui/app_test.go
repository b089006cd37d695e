package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/i18n"
	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// fakeBackend serves the auth endpoints for a single account of role.
func fakeBackend(t *testing.T, role domain.Role) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(client.Token{AccessToken: "tok-" + string(role), TokenType: "bearer"}) //nolint:errcheck
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.User{ //nolint:errcheck
			ID:       "u-" + string(role),
			Email:    string(role) + "@leemaz.com",
			FullName: "Test " + string(role),
			UserType: role,
			Language: domain.LangEnglish,
			Credits:  150,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not found"}) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestApp returns an App wired to an unreachable backend and in-memory storage.
func newTestApp(t *testing.T) (App, *session.Manager) {
	t.Helper()
	return newTestAppAt(t, "http://127.0.0.1:0")
}

func newTestAppAt(t *testing.T, baseURL string) (App, *session.Manager) {
	t.Helper()
	api := client.New(baseURL, "")
	sess := session.NewManager(api, store.NewMemory(), nil, session.Config{})
	api.OnUnauthorized(sess.HandleUnauthorized)
	prefs := i18n.New(store.NewMemory(), nil)
	a := NewApp(api, sess, prefs, "dev")
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App), sess
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// loggedIn returns an App past login with the demo buyer session.
func loggedIn(t *testing.T) (App, *session.Manager) {
	t.Helper()
	a, sess := newTestApp(t)
	if err := sess.Login(context.Background(), session.DemoEmail, session.DemoPassword); err != nil {
		t.Fatalf("demo login: %v", err)
	}
	a, _ = send(t, a, loginResultMsg{})
	if a.phase != phaseMain {
		t.Fatalf("phase = %v, want main", a.phase)
	}
	return a, sess
}

func TestAppBootstrapLoggedOutShowsLogin(t *testing.T) {
	a, _ := newTestApp(t)
	a, _ = send(t, a, bootstrapDoneMsg{state: session.LoggedOut})

	if a.phase != phaseAuth {
		t.Fatalf("phase = %v, want auth", a.phase)
	}
	if !strings.Contains(a.View(), "Sign In") {
		t.Error("login view should render the sign in form")
	}
}

func TestAppInitBootstrapsWithoutToken(t *testing.T) {
	a, sess := newTestApp(t)
	cmd := a.Init()
	if cmd == nil {
		t.Fatal("Init should return commands")
	}
	// bootstrap itself is exercised by the session tests; here we only
	// check that the resulting message is understood.
	state := sess.Bootstrap(context.Background())
	a, _ = send(t, a, bootstrapDoneMsg{state: state})
	if a.phase != phaseAuth {
		t.Errorf("phase = %v, want auth", a.phase)
	}
}

func TestAppLoginMountsHomeStack(t *testing.T) {
	a, _ := loggedIn(t)

	if a.stack.Top().Screen != nav.Home || a.stack.Depth() != 1 {
		t.Errorf("top = %+v depth = %d, want single Home frame", a.stack.Top(), a.stack.Depth())
	}
	if a.me.UserID != session.DemoUserID {
		t.Errorf("me = %q, want demo user", a.me.UserID)
	}
	view := a.View()
	for _, label := range []string{"Home", "Shop", "Favorites", "Chat", "Profile", "demo"} {
		if !strings.Contains(view, label) {
			t.Errorf("view missing %q", label)
		}
	}
}

func TestAppFailedLoginStaysOnAuth(t *testing.T) {
	a, _ := newTestApp(t)
	a, _ = send(t, a, bootstrapDoneMsg{state: session.LoggedOut})
	a, _ = send(t, a, loginResultMsg{err: session.ErrLoginFailed})

	if a.phase != phaseAuth {
		t.Fatalf("phase = %v, want auth", a.phase)
	}
	if !strings.Contains(a.View(), "login failed") {
		t.Error("auth view should show the error")
	}
}

func TestAppDigitSwitchesTab(t *testing.T) {
	a, _ := loggedIn(t)
	a, _ = send(t, a, keyMsg("2"))
	if a.stack.ActiveTab() != nav.Shop {
		t.Fatalf("active tab = %s, want Shop", a.stack.ActiveTab())
	}
	a, _ = send(t, a, keyMsg("3"))
	if a.stack.ActiveTab() != nav.Favorites {
		t.Errorf("buyer tab 3 = %s, want Favorites", a.stack.ActiveTab())
	}
	a, _ = send(t, a, keyMsg("9"))
	if a.stack.ActiveTab() != nav.Favorites {
		t.Errorf("out of range digit changed tab to %s", a.stack.ActiveTab())
	}
}

func TestAppSellerHasNoFavoritesTab(t *testing.T) {
	srv := fakeBackend(t, domain.RoleSeller)
	a, sess := newTestAppAt(t, srv.URL)
	if err := sess.Login(context.Background(), "seller@leemaz.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	a, _ = send(t, a, loginResultMsg{})

	if strings.Contains(a.View(), "Favorites") {
		t.Error("seller tab bar should not include Favorites")
	}
	a, _ = send(t, a, keyMsg("3"))
	if a.stack.ActiveTab() != nav.Chat {
		t.Errorf("seller tab 3 = %s, want Chat", a.stack.ActiveTab())
	}
}

func TestAppNavigateHidesTabBarAndBackRestores(t *testing.T) {
	a, _ := loggedIn(t)
	a, _ = send(t, a, navigateMsg{screen: nav.ProductDetails, params: nav.Params{"productId": "p1"}})

	if a.stack.Depth() != 2 || a.stack.TabBarVisible() {
		t.Fatalf("depth = %d visible = %v after navigate", a.stack.Depth(), a.stack.TabBarVisible())
	}
	if strings.Contains(a.View(), "Favorites") {
		t.Error("tab bar should be hidden on a detail screen")
	}

	// digits do nothing while the tab bar is hidden
	a, _ = send(t, a, keyMsg("2"))
	if a.stack.Depth() != 2 {
		t.Error("digit should not switch tabs from a detail screen")
	}

	_, cmd := send(t, a, keyMsg("esc"))
	if cmd == nil {
		t.Fatal("esc should produce a back command")
	}
	a, _ = send(t, a, cmd())
	if a.stack.Depth() != 1 || a.stack.Top().Screen != nav.Home {
		t.Errorf("after back: top = %+v depth = %d", a.stack.Top(), a.stack.Depth())
	}
}

func TestAppBackAtRootIsNoop(t *testing.T) {
	a, _ := loggedIn(t)
	_, cmd := send(t, a, keyMsg("esc"))
	if cmd != nil {
		t.Error("esc at root should do nothing")
	}
	a, _ = send(t, a, goBackMsg{})
	if a.stack.Depth() != 1 {
		t.Errorf("depth = %d, want 1", a.stack.Depth())
	}
}

func TestAppSwitchTabResetsDetailStack(t *testing.T) {
	a, _ := loggedIn(t)
	a, _ = send(t, a, navigateMsg{screen: nav.ProductDetails, params: nav.Params{"productId": "p1"}})
	a, _ = send(t, a, goBackMsg{})
	a, _ = send(t, a, navigateMsg{screen: nav.ProductDetails, params: nav.Params{"productId": "p2"}})
	a.stack.SwitchTab(nav.Shop)
	if a.stack.Depth() != 1 || a.stack.Top().Screen != nav.Shop {
		t.Errorf("top = %+v depth = %d, want [Shop]", a.stack.Top(), a.stack.Depth())
	}
}

func TestAppLogoutReturnsToLogin(t *testing.T) {
	a, sess := loggedIn(t)
	a, _ = send(t, a, logoutMsg{})

	if a.phase != phaseAuth || a.stack != nil {
		t.Fatalf("phase = %v stack = %v, want auth without stack", a.phase, a.stack)
	}
	if sess.State() != session.LoggedOut {
		t.Errorf("session state = %s", sess.State())
	}
}

func TestAppSessionExpiryReturnsToLogin(t *testing.T) {
	srv := fakeBackend(t, domain.RoleBuyer)
	a, sess := newTestAppAt(t, srv.URL)
	if err := sess.Login(context.Background(), "buyer@leemaz.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	a, _ = send(t, a, loginResultMsg{})
	if a.phase != phaseMain {
		t.Fatalf("phase = %v, want main", a.phase)
	}

	sess.HandleUnauthorized(a.api.Token())
	a, _ = send(t, a, shimmerTickMsg{})

	if a.phase != phaseAuth {
		t.Fatalf("phase = %v, want auth after expiry", a.phase)
	}
	if !strings.Contains(a.View(), "session expired") {
		t.Error("auth view should explain the expiry")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a, _ := loggedIn(t)
	a, _ = send(t, a, keyMsg("h"))
	if !a.helpOpen {
		t.Fatal("h should open help")
	}
	if !strings.Contains(a.View(), "leemaz whoami") {
		t.Error("help should list commands")
	}
	a, _ = send(t, a, keyMsg("j"))
	if a.helpCursor != 1 {
		t.Errorf("help cursor = %d, want 1", a.helpCursor)
	}
	a, _ = send(t, a, keyMsg("esc"))
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppQuit(t *testing.T) {
	a, _ := loggedIn(t)
	_, cmd := send(t, a, keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestAppEditingScreenSuspendsGlobalKeys(t *testing.T) {
	a, _ := loggedIn(t)
	a, _ = send(t, a, navigateMsg{screen: nav.CreateShop})

	a, cmd := send(t, a, keyMsg("q"))
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("q inside a form should type, not quit")
		}
	}
	form, ok := a.current.(createModel)
	if !ok {
		t.Fatalf("current = %T, want createModel", a.current)
	}
	if form.values[fieldName] != "q" {
		t.Errorf("name = %q, want %q", form.values[fieldName], "q")
	}

	// ctrl+c always quits
	_, cmd = send(t, a, keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestAppUnknownScreenRendersHome(t *testing.T) {
	a, _ := loggedIn(t)
	a, _ = send(t, a, navigateMsg{screen: "Settings"})

	if a.stack.Top().Screen != "Settings" {
		t.Fatalf("top = %s, want Settings kept on the stack", a.stack.Top().Screen)
	}
	if _, ok := a.current.(productsModel); !ok {
		t.Errorf("current = %T, want the Home products view", a.current)
	}
}

func TestAppUpdateNotice(t *testing.T) {
	a, _ := newTestApp(t)
	a, _ = send(t, a, versionCheckMsg{latestVersion: "v9.9.9", hasUpdate: true})
	if !strings.Contains(a.View(), "v9.9.9 available") {
		t.Error("header should announce the newer release")
	}
}

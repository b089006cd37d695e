package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leemaz/leemaz/internal/browser"
	"github.com/leemaz/leemaz/internal/i18n"
	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

type phase int

const (
	phaseBootstrapping phase = iota
	phaseAuth
	phaseMain
)

// bootstrapDoneMsg carries the outcome of session bootstrap.
type bootstrapDoneMsg struct {
	state session.State
}

// App is the root Bubbletea model. It mounts a navigation stack while a
// session exists and the auth forms otherwise.
type App struct {
	api     *client.Client
	sess    *session.Manager
	prefs   *i18n.Preferences
	version string

	phase   phase
	auth    authModel
	stack   *nav.Stack
	current screen
	me      domain.Session

	helpOpen   bool
	helpCursor int
	newRelease string // newer release tag, if any
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(api *client.Client, sess *session.Manager, prefs *i18n.Preferences, version string) App {
	return App{
		api:     api,
		sess:    sess,
		prefs:   prefs,
		version: version,
		auth:    newAuthModel(sess, prefs),
	}
}

func (a App) Init() tea.Cmd {
	sess := a.sess
	bootstrap := func() tea.Msg {
		if sess.State() != session.Bootstrapping {
			return bootstrapDoneMsg{state: sess.State()}
		}
		return bootstrapDoneMsg{state: sess.Bootstrap(context.Background())}
	}
	return tea.Batch(shimmerTickCmd(), bootstrap, checkVersion(a.version))
}

// chrome: header(2) + tabs(1) + help(1)
const chromeLines = 4

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - chromeLines}
}

func (a App) deps() deps {
	return deps{api: a.api, sess: a.sess, prefs: a.prefs, me: a.me}
}

// enterMain mounts a fresh stack for the current session.
func (a App) enterMain() (App, tea.Cmd) {
	s := a.sess.Current()
	if s == nil {
		return a.enterAuth("")
	}
	a.me = *s
	a.phase = phaseMain
	a.stack = nav.New(s.Role)
	return a.mountTop()
}

// enterAuth unmounts the stack and shows the login form.
func (a App) enterAuth(notice string) (App, tea.Cmd) {
	a.phase = phaseAuth
	a.stack = nil
	a.current = nil
	a.me = domain.Session{}
	a.auth = newAuthModel(a.sess, a.prefs)
	a.auth.notice = notice
	a.auth, _ = a.auth.Update(a.bodySize())
	return a, nil
}

// mountTop builds the model for the top frame.
func (a App) mountTop() (App, tea.Cmd) {
	a.current = buildScreen(a.deps(), a.stack.Top())
	a.current, _ = a.current.Update(a.bodySize())
	return a, a.current.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	// The session can expire underneath us (401 hook).
	if a.phase == phaseMain && a.sess.State() == session.LoggedOut {
		a, _ = a.enterAuth("session expired · please sign in again")
	}
	return a, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.auth, _ = a.auth.Update(a.bodySize())
		if a.current != nil {
			a.current, _ = a.current.Update(a.bodySize())
		}
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.newRelease = msg.latestVersion
		}
		return a, nil

	case bootstrapDoneMsg:
		if msg.state == session.LoggedIn {
			return a.enterMain()
		}
		return a.enterAuth("")

	case loginResultMsg:
		if msg.err == nil && a.sess.State() == session.LoggedIn {
			return a.enterMain()
		}
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd

	case logoutMsg:
		a.sess.Logout()
		return a.enterAuth("")

	case navigateMsg:
		if a.phase != phaseMain {
			return a, nil
		}
		a.stack.Navigate(msg.screen, msg.params)
		return a.mountTop()

	case goBackMsg:
		if a.phase != phaseMain || !a.stack.GoBack() {
			return a, nil
		}
		return a.mountTop()

	case sessionRefreshedMsg:
		if s := a.sess.Current(); s != nil {
			a.me = *s
		}

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a.route(msg)
}

// route forwards msg to the active sub-model.
func (a App) route(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.phase {
	case phaseAuth:
		a.auth, cmd = a.auth.Update(msg)
	case phaseMain:
		a.current, cmd = a.current.Update(msg)
	}
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (App, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Help overlay captures all keys when open
	if a.helpOpen {
		switch key {
		case "h", "esc", "?":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			item := helpItems[a.helpCursor]
			if item.url != "" {
				browser.Open(item.url) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	if a.phase != phaseMain || a.current.editing() {
		return a.route(msg)
	}

	switch key {
	case "h", "?":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil
	case "q":
		return a, tea.Quit
	case "esc", "b":
		if a.stack.Depth() > 1 {
			return a, goBack
		}
		return a, nil
	}

	if a.stack.TabBarVisible() {
		if n, err := strconv.Atoi(key); err == nil {
			tabs := a.stack.Tabs()
			if n >= 1 && n <= len(tabs) {
				if tabs[n-1] == a.stack.ActiveTab() && a.stack.Depth() == 1 {
					return a, nil
				}
				a.stack.SwitchTab(tabs[n-1])
				return a.mountTop()
			}
		}
	}

	return a.route(msg)
}

func (a App) View() string {
	header := a.centered(renderShimmerLogo(a.frame)) + "\n" + a.centered(a.statusLine())

	var bar, body, help string
	switch {
	case a.helpOpen:
		body = helpView(a.helpCursor)
		help = helpBar(helpEntry("j/k", "nav"), helpEntry("enter", "open"), helpEntry("esc", "close"))
	case a.phase == phaseBootstrapping:
		body = "\n " + dimStyle.Render(a.prefs.T("loading"))
	case a.phase == phaseAuth:
		body = a.auth.View()
		help = a.auth.helpKeys()
	default:
		body = a.current.View()
		help = " " + a.current.helpKeys()
		if !a.current.editing() {
			help += "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	}

	if a.phase == phaseMain {
		if a.stack.TabBarVisible() {
			bar = a.tabBar()
		} else {
			bar = " " + accentStyle.Render("←") + " " + dimStyle.Render(a.prefs.T("back")+" (esc)")
		}
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-chromeLines), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, bar, body, help)
}

func (a App) centered(s string) string {
	pad := max((a.width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}

// statusLine shows who is signed in and how fresh that identity is.
func (a App) statusLine() string {
	var parts []string
	if a.phase == phaseMain {
		parts = append(parts, a.me.DisplayName, a.prefs.T(string(a.me.Role)),
			fmt.Sprintf("%d %s", a.me.Credits, strings.ToLower(a.prefs.T("credits"))))
		switch a.sess.Origin() {
		case session.OriginOffline, session.OriginCache:
			parts = append(parts, offlineStyle.Render(a.prefs.T("offline")))
		case session.OriginDemo:
			parts = append(parts, offlineStyle.Render("demo"))
		}
	}
	if a.newRelease != "" {
		parts = append(parts, accentStyle.Render(a.newRelease+" available"))
	}
	return metaStyle.Render(strings.Join(parts, " · "))
}

// tabBar renders the role's tabs in equal-width columns. Right-to-left
// languages reverse the order.
func (a App) tabBar() string {
	tabs := a.stack.Tabs()
	type entry struct {
		key   string
		label string
		tab   nav.Screen
	}
	entries := make([]entry, len(tabs))
	for i, t := range tabs {
		entries[i] = entry{strconv.Itoa(i + 1), a.prefs.T(strings.ToLower(string(t))), t}
	}
	if a.prefs.IsRTL() {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	colWidth := a.width / len(entries)
	var b strings.Builder
	for _, e := range entries {
		var label string
		if e.tab == a.stack.ActiveTab() {
			label = accentStyle.Render(e.key) + " " + selectedStyle.Underline(true).Render(e.label)
		} else {
			label = metaStyle.Render(e.key) + " " + dimStyle.Render(e.label)
		}
		w := lipgloss.Width(label)
		left := max((colWidth-w)/2, 0)
		right := max(colWidth-w-left, 0)
		b.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}
	return b.String()
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// adminGrant is the credit amount granted per keypress in the admin list.
const adminGrant = 50

type creditsLoadedMsg struct {
	balance      int
	transactions []domain.CreditTransaction
	err          error
}

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

type creditsGrantedMsg struct {
	userID string
	err    error
}

type languageChangedMsg struct{ lang domain.Language }

// profileModel is the Profile tab.
type profileModel struct {
	deps
	balance      int
	transactions []domain.CreditTransaction
	loading      bool
	err          string
	status       string
	width        int
	height       int

	// admin
	users      []domain.User
	userCursor int
}

func newProfileModel(d deps) profileModel {
	return profileModel{deps: d, balance: d.me.Credits, loading: true}
}

func (m profileModel) local() bool {
	o := m.sess.Origin()
	return o == session.OriginDemo || o == session.OriginOffline
}

func (m profileModel) Init() tea.Cmd {
	if m.local() {
		return func() tea.Msg { return creditsLoadedMsg{balance: m.me.Credits} }
	}
	c := m.api
	return func() tea.Msg {
		ctx := context.Background()
		bal, err := c.GetCreditBalance(ctx)
		if err != nil {
			return creditsLoadedMsg{err: err}
		}
		txs, err := c.ListCreditTransactions(ctx)
		return creditsLoadedMsg{balance: bal, transactions: txs, err: err}
	}
}

func (m profileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case creditsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.balance = msg.balance
		m.transactions = msg.transactions

	case sessionRefreshedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + client.Message(msg.err)
			return m, nil
		}
		if s := m.sess.Current(); s != nil {
			m.me = *s
			m.balance = s.Credits
		}
		m.status = "profile refreshed"
		return m, m.Init()

	case languageChangedMsg:
		m.status = m.prefs.T("language") + ": " + m.prefs.T(languageKey(msg.lang))

	case usersLoadedMsg:
		if msg.err != nil {
			m.status = "users: " + client.Message(msg.err)
			return m, nil
		}
		m.users = msg.users
		m.userCursor = 0

	case creditsGrantedMsg:
		if msg.err != nil {
			m.status = "grant failed: " + client.Message(msg.err)
			return m, nil
		}
		for i := range m.users {
			if m.users[i].ID == msg.userID {
				m.users[i].Credits += adminGrant
			}
		}
		m.status = fmt.Sprintf("granted %d credits", adminGrant)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m profileModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "L":
		lang := m.prefs.Toggle()
		return m, func() tea.Msg { return languageChangedMsg{lang: lang} }
	case "r":
		sess := m.sess
		return m, func() tea.Msg {
			return sessionRefreshedMsg{err: sess.RefreshUser(context.Background())}
		}
	case "o":
		return m, func() tea.Msg { return logoutMsg{} }
	case "O":
		return m, navigate(nav.Orders, nil)
	case "A":
		if m.me.Role == domain.RoleAdmin {
			return m, navigate(nav.AdminPanel, nil)
		}
	case "u":
		if m.me.Role == domain.RoleAdmin {
			c := m.api
			return m, func() tea.Msg {
				users, err := c.ListUsers(context.Background())
				return usersLoadedMsg{users: users, err: err}
			}
		}
	case "j", "down":
		if m.userCursor < len(m.users)-1 {
			m.userCursor++
		}
	case "k", "up":
		if m.userCursor > 0 {
			m.userCursor--
		}
	case "+":
		if m.me.Role == domain.RoleAdmin && m.userCursor < len(m.users) {
			c := m.api
			id := m.users[m.userCursor].ID
			return m, func() tea.Msg {
				return creditsGrantedMsg{userID: id, err: c.AddCredits(context.Background(), id, adminGrant)}
			}
		}
	}
	return m, nil
}

func languageKey(l domain.Language) string {
	if l == domain.LangArabic {
		return "arabic"
	}
	return "english"
}

func (m profileModel) editing() bool { return false }

func (m profileModel) helpKeys() string {
	entries := []string{
		helpEntry("L", m.prefs.T("changeLanguage")),
		helpEntry("r", "refresh"),
		helpEntry("o", m.prefs.T("logout")),
		helpEntry("O", m.prefs.T("orders")),
	}
	if m.me.Role == domain.RoleAdmin {
		entries = append(entries,
			helpEntry("A", m.prefs.T("adminPanel")),
			helpEntry("u", "users"),
			helpEntry("+", fmt.Sprintf("+%d credits", adminGrant)),
		)
	}
	return strings.Join(entries, "  ")
}

func (m profileModel) View() string {
	var b strings.Builder

	b.WriteString(sectionRule(m.prefs.T("myProfile"), m.width))
	fmt.Fprintf(&b, " %s\n", titleStyle.Render(m.me.DisplayName))
	fmt.Fprintf(&b, " %s\n", dimStyle.Render(m.me.Email))
	fmt.Fprintf(&b, " %s  %s  %s\n",
		accentStyle.Render(m.prefs.T(string(m.me.Role))),
		metaStyle.Render(m.prefs.T("language")+":"),
		normalStyle.Render(m.prefs.T(languageKey(m.prefs.Language()))),
	)
	switch m.sess.Origin() {
	case session.OriginOffline:
		b.WriteString(" " + offlineStyle.Render(m.prefs.T("offline")) + "\n")
	case session.OriginDemo:
		b.WriteString(" " + offlineStyle.Render("demo") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionRule(m.prefs.T("credits"), m.width))
	if m.loading {
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
	} else {
		fmt.Fprintf(&b, " %s\n", priceStyle.Render(fmt.Sprintf("%d", m.balance)))
		for _, tx := range m.transactions {
			amount := fmt.Sprintf("%+d", tx.Amount)
			style := successStyle
			if tx.Amount < 0 {
				style = errorStyle
			}
			fmt.Fprintf(&b, "   %s  %s  %s\n",
				style.Render(fmt.Sprintf("%6s", amount)),
				normalStyle.Render(truncStr(tx.Description, max(m.width-30, 20))),
				metaStyle.Render(formatTime(tx.CreatedAt)),
			)
		}
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
	}

	if len(m.users) > 0 {
		b.WriteString("\n" + sectionRule("Users", m.width))
		for i, u := range m.users {
			cursor := "  "
			name := normalStyle.Render(u.FullName)
			if i == m.userCursor {
				cursor = accentStyle.Render("▸") + " "
				name = selectedStyle.Render(u.FullName)
			}
			fmt.Fprintf(&b, " %s%s  %s  %s  %s\n",
				cursor, name,
				dimStyle.Render(u.Email),
				metaStyle.Render(string(u.UserType)),
				priceStyle.Render(fmt.Sprintf("%d", u.Credits)),
			)
		}
	}

	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

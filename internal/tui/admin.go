package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

type adminView int

const (
	adminDashboard adminView = iota
	adminShops
	adminSettings
	adminViewCount
)

type dashboardLoadedMsg struct {
	stats *domain.DashboardStats
	err   error
}

type adminShopsLoadedMsg struct {
	filter string
	shops  []domain.AdminShop
	err    error
}

type shopReviewedMsg struct {
	shopID   string
	approved bool
	err      error
}

type settingsLoadedMsg struct {
	settings *domain.SystemSettings
	err      error
}

type settingsSavedMsg struct {
	settings domain.SystemSettings
	err      error
}

// Editable settings fields.
const (
	settingListingCost = iota
	settingInitialCredits
	settingCommission
	settingApproval
	settingCount
)

// adminModel is the AdminPanel screen: totals, shop moderation and
// system settings.
type adminModel struct {
	deps
	view    adminView
	loading bool
	err     string
	status  string
	width   int
	height  int

	stats *domain.DashboardStats

	filter     string
	shops      []domain.AdminShop
	shopCursor int

	settings *domain.SystemSettings
	edit     bool
	values   [settingCount]string
	approval bool
	focus    int
}

func newAdminModel(d deps) adminModel {
	return adminModel{deps: d, filter: domain.ShopsPending, loading: d.me.Role == domain.RoleAdmin}
}

func (m adminModel) Init() tea.Cmd {
	if m.me.Role != domain.RoleAdmin {
		return nil
	}
	return m.load()
}

func (m adminModel) load() tea.Cmd {
	c := m.api
	switch m.view {
	case adminShops:
		filter := m.filter
		return func() tea.Msg {
			shops, err := c.ListAdminShops(context.Background(), filter)
			return adminShopsLoadedMsg{filter: filter, shops: shops, err: err}
		}
	case adminSettings:
		return func() tea.Msg {
			st, err := c.GetSettings(context.Background())
			return settingsLoadedMsg{settings: st, err: err}
		}
	default:
		return func() tea.Msg {
			stats, err := c.AdminDashboard(context.Background())
			return dashboardLoadedMsg{stats: stats, err: err}
		}
	}
}

func (m adminModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.stats = msg.stats

	case adminShopsLoadedMsg:
		// a result for an older filter is dropped
		if msg.filter != m.filter {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.shops = msg.shops
		m.shopCursor = 0

	case shopReviewedMsg:
		if msg.err != nil {
			m.status = "review failed: " + client.Message(msg.err)
			return m, nil
		}
		for i, s := range m.shops {
			if s.ID == msg.shopID {
				m.shops = append(m.shops[:i:i], m.shops[i+1:]...)
				break
			}
		}
		m.shopCursor = min(m.shopCursor, max(len(m.shops)-1, 0))
		if msg.approved {
			m.status = "shop approved"
		} else {
			m.status = "shop rejected"
		}

	case settingsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.settings = msg.settings

	case settingsSavedMsg:
		if msg.err != nil {
			m.status = "save failed: " + client.Message(msg.err)
			return m, nil
		}
		st := msg.settings
		m.settings = &st
		m.edit = false
		m.status = "settings saved"

	case tea.KeyMsg:
		if m.edit {
			return m.updateEdit(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m adminModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.status = ""
	if m.me.Role != domain.RoleAdmin {
		return m, nil
	}
	switch msg.String() {
	case "tab":
		return m.switchView((m.view + 1) % adminViewCount)
	case "shift+tab":
		return m.switchView((m.view - 1 + adminViewCount) % adminViewCount)
	case "r":
		m.loading, m.err = true, ""
		return m, m.load()
	}

	switch m.view {
	case adminShops:
		return m.updateShops(msg.String())
	case adminSettings:
		if msg.String() == "e" && m.settings != nil {
			m.edit = true
			m.focus = 0
			m.values[settingListingCost] = strconv.Itoa(m.settings.ProductListingCost)
			m.values[settingInitialCredits] = strconv.Itoa(m.settings.InitialUserCredits)
			m.values[settingCommission] = strconv.FormatFloat(m.settings.PlatformCommission, 'f', -1, 64)
			m.approval = m.settings.ShopApprovalRequired
		}
	}
	return m, nil
}

func (m adminModel) switchView(v adminView) (screen, tea.Cmd) {
	m.view = v
	m.loading, m.err = true, ""
	return m, m.load()
}

func (m adminModel) updateShops(key string) (screen, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.shopCursor < len(m.shops)-1 {
			m.shopCursor++
		}
	case "k", "up":
		if m.shopCursor > 0 {
			m.shopCursor--
		}
	case "s":
		m.filter = nextFilter(m.filter)
		m.shops = nil
		m.loading, m.err = true, ""
		return m, m.load()
	case "a", "x":
		if m.filter != domain.ShopsPending || m.shopCursor >= len(m.shops) {
			return m, nil
		}
		id := m.shops[m.shopCursor].ID
		approve := key == "a"
		c := m.api
		return m, func() tea.Msg {
			var err error
			if approve {
				err = c.ApproveShop(context.Background(), id)
			} else {
				err = c.RejectShop(context.Background(), id)
			}
			return shopReviewedMsg{shopID: id, approved: approve, err: err}
		}
	}
	return m, nil
}

func nextFilter(f string) string {
	filters := domain.ShopReviewFilters
	for i, v := range filters {
		if v == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return filters[0]
}

func (m adminModel) updateEdit(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.status = ""
	switch key := msg.String(); key {
	case "esc":
		m.edit = false
	case "ctrl+s":
		return m.save()
	case "tab", "down":
		m.focus = (m.focus + 1) % settingCount
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + settingCount) % settingCount
	case "enter":
		if m.focus == settingCount-1 {
			return m.save()
		}
		m.focus++
	default:
		if m.focus == settingApproval {
			if key == " " || key == "space" {
				m.approval = !m.approval
			}
			return m, nil
		}
		m.values[m.focus] = editRune(m.values[m.focus], key)
	}
	return m, nil
}

func (m adminModel) save() (screen, tea.Cmd) {
	cost, err1 := strconv.Atoi(strings.TrimSpace(m.values[settingListingCost]))
	credits, err2 := strconv.Atoi(strings.TrimSpace(m.values[settingInitialCredits]))
	if err1 != nil || err2 != nil || cost < 0 || credits < 0 {
		m.status = "credits must be whole numbers of at least 0"
		return m, nil
	}
	commission, err := strconv.ParseFloat(strings.TrimSpace(m.values[settingCommission]), 64)
	if err != nil || commission < 0 || commission > 100 {
		m.status = "commission must be a percentage between 0 and 100"
		return m, nil
	}

	st := *m.settings
	st.ProductListingCost = cost
	st.InitialUserCredits = credits
	st.PlatformCommission = commission
	st.ShopApprovalRequired = m.approval
	c := m.api
	return m, func() tea.Msg {
		return settingsSavedMsg{settings: st, err: c.UpdateSettings(context.Background(), st)}
	}
}

func (m adminModel) editing() bool { return m.edit }

func (m adminModel) helpKeys() string {
	if m.edit {
		return helpEntry("tab", "next") + "  " + helpEntry("space", "toggle") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	}
	entries := []string{helpEntry("esc", "back"), helpEntry("tab", "view"), helpEntry("r", "reload")}
	switch m.view {
	case adminShops:
		entries = append(entries, helpEntry("s", "filter"))
		if m.filter == domain.ShopsPending {
			entries = append(entries, helpEntry("a", "approve"), helpEntry("x", "reject"))
		}
	case adminSettings:
		entries = append(entries, helpEntry("e", "edit"))
	}
	return strings.Join(entries, "  ")
}

func (m adminModel) View() string {
	var b strings.Builder
	if m.me.Role != domain.RoleAdmin {
		b.WriteString(" " + errorStyle.Render("admins only") + "\n")
		return b.String()
	}

	names := [adminViewCount]string{m.prefs.T("dashboard"), m.prefs.T("shop"), m.prefs.T("settings")}
	var tabs []string
	for i, name := range names {
		if adminView(i) == m.view {
			tabs = append(tabs, accentStyle.Underline(true).Render(name))
		} else {
			tabs = append(tabs, metaStyle.Render(name))
		}
	}
	b.WriteString(" " + titleStyle.Render(m.prefs.T("adminPanel")) + "  " + strings.Join(tabs, "  ") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
	default:
		switch m.view {
		case adminShops:
			m.viewShops(&b)
		case adminSettings:
			m.viewSettings(&b)
		default:
			m.viewDashboard(&b)
		}
	}

	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

func (m adminModel) viewDashboard(b *strings.Builder) {
	if m.stats == nil {
		return
	}
	s := m.stats
	row := func(label string, total int, detail string) {
		fmt.Fprintf(b, " %-10s %s  %s\n", normalStyle.Render(label), priceStyle.Render(strconv.Itoa(total)), metaStyle.Render(detail))
	}
	row("users", s.Users.Total, fmt.Sprintf("%d buyers · %d sellers", s.Users.Buyers, s.Users.Sellers))
	row("shops", s.Shops.Total, fmt.Sprintf("%d pending · %d approved", s.Shops.Pending, s.Shops.Approved))
	row("products", s.Products.Total, fmt.Sprintf("%d active", s.Products.Active))
	row("reviews", s.Reviews, "")
}

func (m adminModel) viewShops(b *strings.Builder) {
	b.WriteString(" " + metaStyle.Render("filter: ") + accentStyle.Render(m.filter) + "\n\n")
	if len(m.shops) == 0 {
		b.WriteString(" " + dimStyle.Render("no shops") + "\n")
		return
	}
	for i, s := range m.shops {
		cursor := "  "
		name := normalStyle.Render(s.Name)
		if i == m.shopCursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(s.Name)
		}
		fmt.Fprintf(b, " %s%s  %s  %s\n", cursor, name,
			CategoryStyle(s.Category).Render(s.Category),
			dimStyle.Render(s.OwnerName+" <"+s.OwnerEmail+">"))
	}
}

func (m adminModel) viewSettings(b *strings.Builder) {
	if m.settings == nil {
		return
	}
	st := m.settings
	if !m.edit {
		fmt.Fprintf(b, " %s  %d\n", metaStyle.Render("listing cost (credits):"), st.ProductListingCost)
		fmt.Fprintf(b, " %s  %d\n", metaStyle.Render("initial user credits:"), st.InitialUserCredits)
		fmt.Fprintf(b, " %s  %g%%\n", metaStyle.Render("platform commission:"), st.PlatformCommission)
		fmt.Fprintf(b, " %s  %s\n", metaStyle.Render("shop approval required:"), yesNo(st.ShopApprovalRequired))
		fmt.Fprintf(b, " %s  %s\n", metaStyle.Render("payment method:"), st.PaymentMethod)
		return
	}

	labels := [settingCount]string{"listing cost (credits)", "initial user credits", "platform commission %", "shop approval required"}
	for i, label := range labels {
		cursor, style := " ", metaStyle
		if i == m.focus {
			cursor, style = accentStyle.Render(">"), selectedStyle
		}
		value := m.values[i]
		if i == settingApproval {
			value = yesNo(m.approval)
		} else if i == m.focus {
			value += accentStyle.Render("█")
		}
		fmt.Fprintf(b, " %s %s: %s\n", cursor, style.Render(label), value)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

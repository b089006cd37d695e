package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

type myShopLoadedMsg struct {
	shop     *domain.Shop
	products []domain.Product
	noShop   bool
	err      error
}

type shopsLoadedMsg struct {
	shops []domain.Shop
	err   error
}

// shopModel is the Shop tab. Sellers manage their own shop; everyone
// else browses the shop directory.
type shopModel struct {
	deps
	seller   bool
	myShop   *domain.Shop
	noShop   bool
	products []domain.Product // seller's listings
	shops    []domain.Shop    // directory
	cursor   int
	loading  bool
	err      string
	width    int
	height   int
}

func newShopModel(d deps) shopModel {
	return shopModel{deps: d, seller: d.me.IsSeller(), loading: true}
}

func (m shopModel) Init() tea.Cmd {
	c := m.api
	if m.seller {
		return func() tea.Msg {
			ctx := context.Background()
			shop, err := c.GetMyShop(ctx)
			if client.IsStatus(err, http.StatusNotFound) {
				return myShopLoadedMsg{noShop: true}
			}
			if err != nil {
				return myShopLoadedMsg{err: err}
			}
			all, err := c.ListProducts(ctx, "", 0, pageSize)
			if err != nil {
				return myShopLoadedMsg{shop: shop, err: err}
			}
			var mine []domain.Product
			for _, p := range all {
				if p.ShopID == shop.ID {
					mine = append(mine, p)
				}
			}
			return myShopLoadedMsg{shop: shop, products: mine}
		}
	}
	return func() tea.Msg {
		shops, err := c.ListShops(context.Background(), 0, pageSize)
		return shopsLoadedMsg{shops: shops, err: err}
	}
}

func (m shopModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case myShopLoadedMsg:
		m.loading = false
		m.noShop = msg.noShop
		m.myShop = msg.shop
		m.products = msg.products
		m.err = ""
		if msg.err != nil {
			m.err = msg.err.Error()
		}

	case shopsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.shops = msg.shops

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m shopModel) listLen() int {
	if m.seller {
		return len(m.products)
	}
	return len(m.shops)
}

func (m shopModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.seller && m.cursor < len(m.products) {
			return m, navigate(nav.ProductDetails, nav.Params{"productId": m.products[m.cursor].ID})
		}
	case "n":
		if !m.seller || m.loading {
			return m, nil
		}
		if m.noShop {
			return m, navigate(nav.CreateShop, nil)
		}
		if m.myShop != nil {
			return m, navigate(nav.CreateProduct, nav.Params{"shopId": m.myShop.ID})
		}
	case "r":
		m.loading = true
		return m, m.Init()
	}
	return m, nil
}

func (m shopModel) editing() bool { return false }

func (m shopModel) helpKeys() string {
	if !m.seller {
		return helpEntry("j/k", "nav") + "  " + helpEntry("r", "refresh")
	}
	if m.noShop {
		return helpEntry("n", m.prefs.T("createShop")) + "  " + helpEntry("r", "refresh")
	}
	return helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("n", m.prefs.T("addProduct")) + "  " + helpEntry("r", "refresh")
}

func (m shopModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
		return b.String()
	}
	if m.seller {
		m.viewSeller(&b)
	} else {
		m.viewDirectory(&b)
	}
	if m.err != "" {
		b.WriteString("\n " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

func (m shopModel) viewSeller(b *strings.Builder) {
	if m.noShop {
		b.WriteString(sectionRule(m.prefs.T("shop"), m.width))
		b.WriteString("\n " + dimStyle.Render(m.prefs.T("noShop")+" · press n to create one") + "\n")
		return
	}
	if m.myShop == nil {
		return
	}
	fmt.Fprintf(b, " %s  %s\n", titleStyle.Render(m.myShop.Name), CategoryStyle(m.myShop.Category).Render(m.myShop.Category))
	if m.myShop.Description != "" {
		b.WriteString(" " + dimStyle.Render(truncStr(oneLine(m.myShop.Description), max(m.width-4, 20))) + "\n")
	}
	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("each listing costs %d credits · you have %d", domain.ListingCost, m.me.Credits)) + "\n\n")

	b.WriteString(sectionRule(m.prefs.T("products"), m.width))
	if len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("no listings yet · press n to add a product") + "\n")
		return
	}
	for i, p := range m.products {
		cursor := "  "
		name := normalStyle.Render(p.Name)
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(p.Name)
		}
		fmt.Fprintf(b, " %s%s  %s  %s\n", cursor, name, priceStyle.Render(formatPrice(p.Price)), renderStars(p.Rating))
	}
}

func (m shopModel) viewDirectory(b *strings.Builder) {
	b.WriteString(sectionRule("Shops", m.width))
	if len(m.shops) == 0 {
		b.WriteString(" " + dimStyle.Render("no shops yet") + "\n")
		return
	}
	descWidth := max(m.width-8, 20)
	for i, s := range m.shops {
		cursor := "  "
		name := normalStyle.Render(s.Name)
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(s.Name)
		}
		fmt.Fprintf(b, " %s%s  %s\n", cursor, name, CategoryStyle(s.Category).Render(s.Category))
		if i == m.cursor && s.Description != "" {
			desc := lipgloss.NewStyle().Width(descWidth).Render(s.Description)
			for _, line := range strings.Split(desc, "\n") {
				b.WriteString("    " + dimStyle.Render(line) + "\n")
			}
		}
	}
}

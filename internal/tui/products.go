package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/pkg/domain"
)

// productsSource selects what a product list shows.
type productsSource int

const (
	productsAll       productsSource = iota // Home: every active product
	productsFavorites                       // Favorites: the buyer's saved products
)

type productsLoadedMsg struct {
	source   productsSource
	category string
	products []domain.Product
	err      error
}

type favoriteRemovedMsg struct {
	productID string
	err       error
}

// productsModel backs the Home and Favorites tabs.
type productsModel struct {
	deps
	source   productsSource
	products []domain.Product
	category string // "" means all
	cursor   int
	loading  bool
	err      string
	status   string
	width    int
	height   int
}

func newProductsModel(d deps, source productsSource) productsModel {
	return productsModel{deps: d, source: source, loading: true}
}

func (m productsModel) Init() tea.Cmd {
	return m.load()
}

func (m productsModel) load() tea.Cmd {
	c := m.api
	source, category := m.source, m.category
	return func() tea.Msg {
		var (
			products []domain.Product
			err      error
		)
		if source == productsFavorites {
			products, err = c.ListFavorites(context.Background())
		} else {
			products, err = c.ListProducts(context.Background(), category, 0, pageSize)
		}
		return productsLoadedMsg{source: source, category: category, products: products, err: err}
	}
}

func (m productsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case productsLoadedMsg:
		if msg.source != m.source || msg.category != m.category {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}

	case favoriteRemovedMsg:
		if msg.err != nil {
			m.status = "remove failed: " + msg.err.Error()
			return m, nil
		}
		for i, p := range m.products {
			if p.ID == msg.productID {
				m.products = append(m.products[:i], m.products[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.products) {
			m.cursor = max(len(m.products)-1, 0)
		}
		m.status = "removed from favorites"

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m productsModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.products) {
			return m, navigate(nav.ProductDetails, nav.Params{"productId": m.products[m.cursor].ID})
		}
	case "c":
		if m.source == productsAll {
			m.category = nextCategory(m.category)
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "x":
		if m.source == productsFavorites && m.cursor < len(m.products) {
			c := m.api
			id := m.products[m.cursor].ID
			return m, func() tea.Msg {
				return favoriteRemovedMsg{productID: id, err: c.RemoveFavorite(context.Background(), id)}
			}
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

// nextCategory cycles "" -> each category -> "".
func nextCategory(current string) string {
	if current == "" {
		return domain.Categories[0]
	}
	for i, c := range domain.Categories {
		if c == current && i+1 < len(domain.Categories) {
			return domain.Categories[i+1]
		}
	}
	return ""
}

func (m productsModel) editing() bool { return false }

func (m productsModel) helpKeys() string {
	entries := []string{helpEntry("j/k", "nav"), helpEntry("enter", "open")}
	if m.source == productsAll {
		entries = append(entries, helpEntry("c", "category"))
	} else {
		entries = append(entries, helpEntry("x", "remove"))
	}
	return strings.Join(append(entries, helpEntry("r", "refresh")), "  ")
}

func (m productsModel) View() string {
	var b strings.Builder

	title := m.prefs.T("products")
	if m.source == productsFavorites {
		title = m.prefs.T("favorites")
	} else if m.category != "" {
		title += "  " + CategoryStyle(m.category).Render(m.category)
	}
	b.WriteString(sectionRule(title, m.width))

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
		return b.String()
	case len(m.products) == 0:
		empty := "no products yet"
		if m.source == productsFavorites {
			empty = "no favorites yet · press enter on a product and f to save it"
		}
		b.WriteString("\n " + dimStyle.Render(empty) + "\n")
		return b.String()
	}

	nameWidth := max(m.width-40, 16)
	for i, p := range m.products {
		cursor := "  "
		name := normalStyle.Render(truncStr(p.Name, nameWidth))
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(truncStr(p.Name, nameWidth))
		}
		fmt.Fprintf(&b, " %s%s  %s  %s  %s\n",
			cursor,
			name,
			priceStyle.Render(formatPrice(p.Price)),
			CategoryStyle(p.Category).Render(p.Category),
			renderStars(p.Rating),
		)
	}

	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

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

type formKind int

const (
	formShop formKind = iota
	formProduct
)

type formField struct {
	label  string
	choice bool // cycled through domain.Categories with h/l
}

// createModel is the CreateShop and CreateProduct form.
type createModel struct {
	deps
	kind      formKind
	shopID    string
	fields    []formField
	values    []string
	focus     int
	statusMsg string
	submitted bool
}

type shopCreatedMsg struct {
	shop *domain.Shop
	err  error
}

type productCreatedMsg struct {
	product *domain.Product
	err     error
}

// Field positions shared by both forms.
const (
	fieldName = iota
	fieldDescription
	fieldCategory
	fieldPrice // product form only
)

func newShopForm(d deps) createModel {
	return newCreateModel(d, formShop, "", []formField{
		{label: d.prefs.T("shopName")},
		{label: d.prefs.T("description")},
		{label: d.prefs.T("category"), choice: true},
	})
}

func newProductForm(d deps, shopID string) createModel {
	return newCreateModel(d, formProduct, shopID, []formField{
		{label: d.prefs.T("productName")},
		{label: d.prefs.T("description")},
		{label: d.prefs.T("category"), choice: true},
		{label: d.prefs.T("price")},
	})
}

func newCreateModel(d deps, kind formKind, shopID string, fields []formField) createModel {
	m := createModel{deps: d, kind: kind, shopID: shopID, fields: fields, values: make([]string, len(fields))}
	m.values[fieldCategory] = domain.Categories[0]
	return m
}

func (m createModel) Init() tea.Cmd {
	return nil
}

func (m createModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shopCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "failed: " + client.Message(msg.err)
			return m, nil
		}
		return m, goBack

	case productCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "failed: " + client.Message(msg.err)
			return m, nil
		}
		return m, goBack

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m createModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.statusMsg = ""
	n := len(m.fields)

	switch msg.String() {
	case "esc":
		return m, goBack
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus == n-1 {
			return m.submit()
		}
		m.focus = (m.focus + 1) % n
	default:
		key := msg.String()
		if m.fields[m.focus].choice {
			if key == "h" || key == "l" || key == "left" || key == "right" {
				m.values[m.focus] = cycleCategory(m.values[m.focus], key == "l" || key == "right")
			}
			return m, nil
		}
		m.values[m.focus] = editRune(m.values[m.focus], key)
	}
	return m, nil
}

func cycleCategory(current string, forward bool) string {
	cats := domain.Categories
	idx := 0
	for i, c := range cats {
		if c == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(cats)
	} else {
		idx = (idx - 1 + len(cats)) % len(cats)
	}
	return cats[idx]
}

func (m createModel) submit() (screen, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	name := strings.TrimSpace(m.values[fieldName])
	desc := strings.TrimSpace(m.values[fieldDescription])
	category := m.values[fieldCategory]

	if name == "" || desc == "" {
		m.statusMsg = m.prefs.T("required")
		return m, nil
	}
	if !domain.ValidCategory(category) {
		m.statusMsg = "invalid category"
		return m, nil
	}

	c := m.api
	switch m.kind {
	case formShop:
		req := client.CreateShopRequest{Name: name, Description: desc, Category: category}
		m.submitted = true
		return m, func() tea.Msg {
			shop, err := c.CreateShop(context.Background(), req)
			return shopCreatedMsg{shop: shop, err: err}
		}
	default:
		price, err := strconv.ParseFloat(strings.TrimSpace(m.values[fieldPrice]), 64)
		if err != nil || price <= 0 {
			m.statusMsg = "price must be a positive number"
			return m, nil
		}
		if m.shopID == "" {
			m.statusMsg = "create a shop first"
			return m, nil
		}
		req := client.CreateProductRequest{
			Name:        name,
			Description: desc,
			Price:       price,
			Category:    category,
			ShopID:      m.shopID,
		}
		m.submitted = true
		return m, func() tea.Msg {
			p, err := c.CreateProduct(context.Background(), req)
			return productCreatedMsg{product: p, err: err}
		}
	}
}

// Forms capture every key.
func (m createModel) editing() bool { return true }

func (m createModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("h/l", "category") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "cancel")
}

func (m createModel) View() string {
	var b strings.Builder

	title := m.prefs.T("createShop")
	if m.kind == formProduct {
		title = m.prefs.T("addProduct")
	}
	b.WriteString(" " + titleStyle.Render(title) + "\n\n")

	for i, f := range m.fields {
		value := m.values[i]
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		if f.choice {
			fmt.Fprintf(&b, " %s %s: %s  %s\n",
				cursor, style.Render(f.label), CategoryStyle(value).Render(value), metaStyle.Render("(h/l to cycle)"))
			continue
		}
		if i == m.focus {
			value += accentStyle.Render("█")
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(f.label), value)
	}

	b.WriteString("\n")
	if m.kind == formProduct {
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("listing costs %d credits", domain.ListingCost)) + "\n")
	}
	if m.submitted {
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// orderKeys maps action keys to the status they request.
var orderKeys = map[string]domain.OrderStatus{
	"c": domain.OrderConfirmed,
	"d": domain.OrderDelivered,
	"x": domain.OrderCancelled,
}

type ordersLoadedMsg struct {
	orders []domain.Order
	err    error
}

type orderStatusMsg struct {
	orderID string
	status  domain.OrderStatus
	err     error
}

// ordersModel is the Orders screen: purchases for buyers, sales for sellers.
type ordersModel struct {
	deps
	orders  []domain.Order
	cursor  int
	loading bool
	err     string
	status  string
	width   int
	height  int
}

func newOrdersModel(d deps) ordersModel {
	return ordersModel{deps: d, loading: true}
}

func (m ordersModel) Init() tea.Cmd {
	c := m.api
	return func() tea.Msg {
		orders, err := c.ListOrders(context.Background())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func (m ordersModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.orders = msg.orders
		m.cursor = min(m.cursor, max(len(m.orders)-1, 0))

	case orderStatusMsg:
		if msg.err != nil {
			m.status = "update failed: " + client.Message(msg.err)
			return m, nil
		}
		for i := range m.orders {
			if m.orders[i].ID == msg.orderID {
				m.orders[i].Status = msg.status
			}
		}
		m.status = fmt.Sprintf("order %s %s", shortID(msg.orderID), msg.status)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m ordersModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.status = ""
	key := msg.String()
	switch key {
	case "j", "down":
		if m.cursor < len(m.orders)-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "r":
		m.loading = true
		return m, m.Init()
	}

	to, ok := orderKeys[key]
	if !ok || m.cursor >= len(m.orders) {
		return m, nil
	}
	o := m.orders[m.cursor]
	if !domain.CanTransition(m.me.Role, o.Status, to) {
		m.status = fmt.Sprintf("cannot mark a %s order %s", o.Status, to)
		return m, nil
	}
	c := m.api
	return m, func() tea.Msg {
		return orderStatusMsg{orderID: o.ID, status: to, err: c.UpdateOrderStatus(context.Background(), o.ID, to)}
	}
}

func (m ordersModel) editing() bool { return false }

func (m ordersModel) helpKeys() string {
	entries := []string{helpEntry("esc", "back"), helpEntry("j/k", "move"), helpEntry("r", "reload")}
	if m.cursor < len(m.orders) {
		for _, to := range domain.OrderTransitions(m.me.Role, m.orders[m.cursor].Status) {
			entries = append(entries, helpEntry(actionKey(to), string(to)))
		}
	}
	return strings.Join(entries, "  ")
}

func actionKey(s domain.OrderStatus) string {
	for k, v := range orderKeys {
		if v == s {
			return k
		}
	}
	return "?"
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

func (m ordersModel) View() string {
	var b strings.Builder
	b.WriteString(sectionRule(m.prefs.T("orders"), m.width))

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
		return b.String()
	case len(m.orders) == 0:
		b.WriteString(" " + dimStyle.Render("no orders yet") + "\n")
		return b.String()
	}

	for i, o := range m.orders {
		cursor := "  "
		name := normalStyle.Render(o.ProductName)
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(o.ProductName)
		}
		fmt.Fprintf(&b, " %s%s  %s  %s\n", cursor, name,
			metaStyle.Render(shortID(o.ID)),
			orderStatusStyle(o.Status).Render(strings.ToUpper(string(o.Status))))
		fmt.Fprintf(&b, "   %s  %s  %s\n",
			dimStyle.Render(fmt.Sprintf("×%d", o.Quantity)),
			priceStyle.Render(formatPrice(o.TotalAmount)),
			metaStyle.Render(formatTime(o.CreatedAt)))
		if i == m.cursor {
			fmt.Fprintf(&b, "   %s\n", dimStyle.Render(oneLine(o.DeliveryAddress)+" · "+o.PhoneNumber))
		}
	}

	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

// Order form fields.
const (
	orderQuantity = iota
	orderAddress
	orderPhone
	orderFieldCount
)

// maxOrderQuantity bounds the three-digit quantity field.
const maxOrderQuantity = 999

type orderProductMsg struct {
	product *domain.Product
	err     error
}

type orderCreatedMsg struct {
	order *domain.Order
	err   error
}

// orderFormModel is the CreateOrder screen. Only buyers may submit it.
type orderFormModel struct {
	deps
	productID string
	product   *domain.Product
	values    [orderFieldCount]string
	focus     int
	statusMsg string
	submitted bool
}

func newOrderForm(d deps, productID string) orderFormModel {
	m := orderFormModel{deps: d, productID: productID}
	m.values[orderQuantity] = "1"
	return m
}

func (m orderFormModel) Init() tea.Cmd {
	if m.productID == "" {
		return func() tea.Msg { return orderProductMsg{err: fmt.Errorf("no product selected")} }
	}
	c, id := m.api, m.productID
	return func() tea.Msg {
		p, err := c.GetProduct(context.Background(), id)
		return orderProductMsg{product: p, err: err}
	}
}

func (m orderFormModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case orderProductMsg:
		if msg.err != nil {
			m.statusMsg = client.Message(msg.err)
			return m, nil
		}
		m.product = msg.product

	case orderCreatedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "order failed: " + client.Message(msg.err)
			return m, nil
		}
		return m, navigate(nav.Orders, nil)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m orderFormModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.statusMsg = ""
	switch key := msg.String(); key {
	case "esc":
		return m, goBack
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % orderFieldCount
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + orderFieldCount) % orderFieldCount
	case "enter":
		if m.focus == orderFieldCount-1 {
			return m.submit()
		}
		m.focus++
	default:
		v := editRune(m.values[m.focus], key)
		if m.focus == orderQuantity && len(v) > 3 {
			return m, nil
		}
		m.values[m.focus] = v
	}
	return m, nil
}

func (m orderFormModel) quantity() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(m.values[orderQuantity]))
	return n, err == nil && n >= 1 && n <= maxOrderQuantity
}

func (m orderFormModel) submit() (screen, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	if !m.me.IsBuyer() {
		m.statusMsg = "only buyers can place orders"
		return m, nil
	}
	if m.product == nil {
		m.statusMsg = "product not loaded"
		return m, nil
	}
	address := strings.TrimSpace(m.values[orderAddress])
	phone := strings.TrimSpace(m.values[orderPhone])
	if address == "" || phone == "" {
		m.statusMsg = m.prefs.T("required")
		return m, nil
	}
	qty, ok := m.quantity()
	if !ok {
		m.statusMsg = fmt.Sprintf("quantity must be between 1 and %d", maxOrderQuantity)
		return m, nil
	}

	req := client.CreateOrderRequest{
		ProductID:       m.product.ID,
		Quantity:        qty,
		DeliveryAddress: address,
		PhoneNumber:     phone,
		PaymentMethod:   domain.PaymentCash,
	}
	c := m.api
	m.submitted = true
	return m, func() tea.Msg {
		o, err := c.CreateOrder(context.Background(), req)
		return orderCreatedMsg{order: o, err: err}
	}
}

func (m orderFormModel) editing() bool { return true }

func (m orderFormModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "place order") + "  " + helpEntry("esc", "cancel")
}

func (m orderFormModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render(m.prefs.T("createOrder")) + "  " + metaStyle.Render(m.prefs.T("cashOnDelivery")) + "\n\n")

	if !m.me.IsBuyer() {
		b.WriteString(" " + errorStyle.Render("only buyers can place orders") + "\n")
		return b.String()
	}
	if m.product != nil {
		fmt.Fprintf(&b, " %s  %s\n\n", normalStyle.Render(m.product.Name), priceStyle.Render(formatPrice(m.product.Price)))
	}

	labels := [orderFieldCount]string{m.prefs.T("quantity"), m.prefs.T("deliveryAddress"), m.prefs.T("phoneNumber")}
	for i, label := range labels {
		cursor, style, value := " ", metaStyle, m.values[i]
		if i == m.focus {
			cursor, style = accentStyle.Render(">"), selectedStyle
			value += accentStyle.Render("█")
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(label), value)
	}

	if qty, ok := m.quantity(); ok && m.product != nil {
		b.WriteString("\n " + metaStyle.Render("total ") + priceStyle.Render(formatPrice(m.product.Price*float64(qty))) + "\n")
	}
	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}

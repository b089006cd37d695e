package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leemaz/leemaz/internal/nav"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

type productLoadedMsg struct {
	product  *domain.Product
	reviews  []domain.Review
	favorite bool
	err      error
}

type favoriteToggledMsg struct {
	favorite bool
	err      error
}

type reviewPostedMsg struct {
	review *domain.Review
	err    error
}

type copyResultMsg struct{ err error }

// detailsModel is the ProductDetails screen.
type detailsModel struct {
	deps
	productID string
	product   *domain.Product
	reviews   []domain.Review
	favorite  bool
	loading   bool
	err       string
	status    string
	width     int
	height    int

	// review composer
	reviewing bool
	rating    int
	comment   string
}

func newDetailsModel(d deps, productID string) detailsModel {
	return detailsModel{deps: d, productID: productID, loading: true}
}

func (m detailsModel) Init() tea.Cmd {
	if m.productID == "" {
		return func() tea.Msg { return productLoadedMsg{err: fmt.Errorf("no product selected")} }
	}
	c := m.api
	id := m.productID
	buyer := m.me.IsBuyer()
	return func() tea.Msg {
		ctx := context.Background()
		p, err := c.GetProduct(ctx, id)
		if err != nil {
			return productLoadedMsg{err: err}
		}
		reviews, err := c.ListProductReviews(ctx, id, 0, pageSize)
		if err != nil {
			reviews = nil
		}
		fav := false
		if buyer {
			if favs, err := c.ListFavorites(ctx); err == nil {
				for _, f := range favs {
					if f.ID == id {
						fav = true
						break
					}
				}
			}
		}
		return productLoadedMsg{product: p, reviews: reviews, favorite: fav}
	}
}

func (m detailsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case productLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.product = msg.product
		m.reviews = msg.reviews
		m.favorite = msg.favorite

	case favoriteToggledMsg:
		if msg.err != nil {
			m.status = "favorite failed: " + client.Message(msg.err)
			return m, nil
		}
		m.favorite = msg.favorite
		if m.favorite {
			m.status = "saved to favorites"
		} else {
			m.status = "removed from favorites"
		}

	case reviewPostedMsg:
		if msg.err != nil {
			m.status = "review failed: " + client.Message(msg.err)
			return m, nil
		}
		m.reviewing = false
		m.rating = 0
		m.comment = ""
		m.reviews = append([]domain.Review{*msg.review}, m.reviews...)
		m.status = "review posted"

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "product id copied"
		}

	case tea.KeyMsg:
		if m.reviewing {
			return m.updateReview(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m detailsModel) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	m.status = ""
	if m.product == nil {
		return m, nil
	}
	p := *m.product
	switch msg.String() {
	case "f":
		if !m.me.IsBuyer() {
			return m, nil
		}
		c := m.api
		want := !m.favorite
		return m, func() tea.Msg {
			var err error
			if want {
				err = c.AddFavorite(context.Background(), p.ID)
			} else {
				err = c.RemoveFavorite(context.Background(), p.ID)
			}
			return favoriteToggledMsg{favorite: want, err: err}
		}
	case "y":
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(p.ID)}
		}
	case "m":
		if p.SellerID == "" || p.SellerID == m.me.UserID {
			return m, nil
		}
		return m, navigate(nav.ChatConversation, nav.Params{"userId": p.SellerID, "userName": "Seller"})
	case "w":
		if m.me.IsBuyer() {
			m.reviewing = true
			m.rating = 5
		}
	case "o":
		if m.me.IsBuyer() {
			return m, navigate(nav.CreateOrder, nav.Params{"productId": p.ID})
		}
	}
	return m, nil
}

func (m detailsModel) updateReview(msg tea.KeyMsg) (screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		m.reviewing = false
		m.comment = ""
		return m, nil
	case "enter":
		req := client.CreateReviewRequest{
			ProductID: m.productID,
			Rating:    m.rating,
			Comment:   strings.TrimSpace(m.comment),
		}
		c := m.api
		return m, func() tea.Msg {
			r, err := c.CreateReview(context.Background(), req)
			return reviewPostedMsg{review: r, err: err}
		}
	case "left":
		if m.rating > 1 {
			m.rating--
		}
		return m, nil
	case "right":
		if m.rating < 5 {
			m.rating++
		}
		return m, nil
	}
	m.comment = editRune(m.comment, key)
	return m, nil
}

func (m detailsModel) editing() bool { return m.reviewing }

func (m detailsModel) helpKeys() string {
	if m.reviewing {
		return helpEntry("←/→", "stars") + "  " + helpEntry("enter", "post") + "  " + helpEntry("esc", "cancel")
	}
	entries := []string{helpEntry("esc", "back")}
	if m.me.IsBuyer() {
		entries = append(entries, helpEntry("f", "favorite"), helpEntry("w", "review"), helpEntry("o", "order"))
	}
	entries = append(entries, helpEntry("m", "message seller"), helpEntry("y", "copy id"))
	return strings.Join(entries, "  ")
}

func (m detailsModel) View() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render(m.prefs.T("loading")) + "\n")
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.prefs.T("error")+": "+m.err) + "\n")
		return b.String()
	case m.product == nil:
		return ""
	}
	p := m.product

	heart := metaStyle.Render("♡")
	if m.favorite {
		heart = accentStyle.Render("♥")
	}
	fmt.Fprintf(&b, " %s  %s\n", titleStyle.Render(p.Name), heart)
	fmt.Fprintf(&b, " %s  %s  %s %s\n",
		priceStyle.Render(formatPrice(p.Price)),
		CategoryStyle(p.Category).Render(p.Category),
		renderStars(p.Rating),
		metaStyle.Render(fmt.Sprintf("(%d)", p.ReviewCount)),
	)
	b.WriteString("\n")
	if p.Description != "" {
		wrapped := lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(p.Description)
		for _, line := range strings.Split(wrapped, "\n") {
			b.WriteString(" " + normalStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}
	if n := len(p.Images); n > 0 {
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("%d image(s)", n)) + "\n\n")
	}

	b.WriteString(sectionRule(m.prefs.T("reviews"), m.width))
	if m.reviewing {
		fmt.Fprintf(&b, " %s  %s%s\n",
			renderStars(float64(m.rating)),
			normalStyle.Render(m.comment),
			accentStyle.Render("█"),
		)
	}
	if len(m.reviews) == 0 && !m.reviewing {
		b.WriteString(" " + dimStyle.Render("no reviews yet") + "\n")
	}
	for _, r := range m.reviews {
		fmt.Fprintf(&b, " %s  %s  %s\n",
			renderStars(float64(r.Rating)),
			normalStyle.Render(truncStr(oneLine(r.Comment), max(m.width-30, 20))),
			metaStyle.Render(formatTime(r.CreatedAt)),
		)
	}

	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return truncateToHeight(b.String(), m.height)
}

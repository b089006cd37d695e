package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leemaz/leemaz/pkg/domain"
)

// Shimmer animation for the LEEMAZ logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// rgb is a logo gradient endpoint.
type rgb struct{ r, g, b float64 }

var (
	logoDeep   = rgb{90, 16, 48}   // #5a1030 plum
	logoBright = rgb{240, 98, 146} // #f06292 rose
)

// renderShimmerLogo draws "LEEMAZ" with a band of light sweeping left to
// right. Each letter's brightness is a raised cosine of its distance to
// the band, on top of a slow breathing floor.
func renderShimmerLogo(frame int) string {
	const (
		text   = "LEEMAZ"
		period = 60.0 // frames per sweep
		width  = 1.6  // band half-width in letters
	)
	n := len(text)
	// the band travels past both ends before wrapping
	center := math.Mod(float64(frame), period)/period*float64(n+4) - 2
	floor := 0.22 + 0.08*math.Sin(float64(frame)*0.05)

	letters := make([]string, n)
	for i := range n {
		glow := 0.0
		if d := math.Abs(float64(i) - center); d < width {
			glow = 0.5 + 0.5*math.Cos(math.Pi*d/width)
		}
		t := math.Min(floor+glow*(1-floor), 1)
		c := fmt.Sprintf("#%02X%02X%02X",
			clampByte(lerp(logoDeep.r, logoBright.r, t)),
			clampByte(lerp(logoDeep.g, logoBright.g, t)),
			clampByte(lerp(logoDeep.b, logoBright.b, t)))
		letters[i] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c)).Render(string(text[i]))
	}
	return strings.Join(letters, "  ")
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clampByte(v float64) int {
	return int(math.Max(0, math.Min(255, v)))
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Brand pink
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E91E63"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f06292")).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a")).
			Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#E91E63")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	chatSelfNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e4e4ec"))

	chatOtherNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f06292"))

	chatSelfTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#c0c4d0"))

	chatTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	chatSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#404858"))

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0")).
				Bold(true)

	unreadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#E91E63")).
			Bold(true)

	categoryColors = map[string]lipgloss.Color{
		"clothing":    lipgloss.Color("#c084e0"),
		"jewelry":     lipgloss.Color("#d4a844"),
		"perfumes":    lipgloss.Color("#f06292"),
		"herbal":      lipgloss.Color("#4ade80"),
		"handicrafts": lipgloss.Color("#f0944a"),
		"food":        lipgloss.Color("#e06060"),
	}

	orderStatusColors = map[domain.OrderStatus]lipgloss.Color{
		domain.OrderPending:   lipgloss.Color("#f0944a"),
		domain.OrderConfirmed: lipgloss.Color("#60a5fa"),
		domain.OrderDelivered: lipgloss.Color("#4ade80"),
		domain.OrderCancelled: lipgloss.Color("#e06060"),
	}
)

// CategoryStyle returns a bold style colored for the given product category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// orderStatusStyle colors an order status badge.
func orderStatusStyle(s domain.OrderStatus) lipgloss.Style {
	if c, ok := orderStatusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return metaStyle
}

// renderStars renders a 0-5 rating as filled and empty stars.
func renderStars(rating float64) string {
	full := int(math.Round(rating))
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	return starStyle.Render(strings.Repeat("★", full)) + metaStyle.Render(strings.Repeat("☆", 5-full))
}

// sectionRule renders a title line followed by a separator.
func sectionRule(title string, width int) string {
	sep := strings.Repeat("─", max(width-2, 4))
	return " " + sectionTitleStyle.Render(title) + "\n " + metaStyle.Render(sep) + "\n"
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard gap.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Terms of Service", "leemaz.com/terms", "https://leemaz.com/terms"},
	{"Privacy Policy", "leemaz.com/privacy", "https://leemaz.com/privacy"},
	{"Seller Guide", "leemaz.com/sellers", "https://leemaz.com/sellers"},
	{"Website", "leemaz.com", "https://leemaz.com"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := titleStyle.Render("L E E M A Z")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Syrian Women's Marketplace")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E91E63"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"leemaz", "Open the marketplace (interactive TUI)"},
		{"leemaz login", "Sign in with email and password"},
		{"leemaz register", "Create a buyer or seller account"},
		{"leemaz verify", "Confirm your email with the emailed code"},
		{"leemaz whoami", "Show the signed-in account"},
		{"leemaz logout", "Clear your session"},
		{"leemaz version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-18s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-18s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-18s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}

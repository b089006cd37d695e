package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/pkg/domain"
)

var welcomeLines = [...]string{
	"Handmade soap from Aleppo is waiting for someone. Might be you.",
	"Every listing here was made by a woman running her own shop.",
	"The jewelry tab has new pieces this week.",
	"Sellers answer messages faster than you think.",
	"Your favorites list is empty. That can change.",
	"New sellers get 100 credits after verifying their email.",
	"Perfumes, herbs, embroidery. Take your time.",
}

var (
	brandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E91E63")).Bold(true)
	quietStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f0944a")).Bold(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// printWelcome is shown when no session exists.
func printWelcome(w io.Writer) {
	line := welcomeLines[rand.IntN(len(welcomeLines))]
	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n%s\n\n",
		brandStyle.Render("LEEMAZ"),
		noteStyle.Render(line),
		quietStyle.Render("Not signed in."),
		quietStyle.Render("To enter: leemaz login   (or try the demo: "+session.DemoEmail+" / "+session.DemoPassword+")"),
	)
}

// printSignedIn summarizes the active session.
func printSignedIn(w io.Writer, s domain.Session, origin session.Origin) {
	rows := []struct{ k, v string }{
		{"Name", s.DisplayName},
		{"Email", s.Email},
		{"Role", string(s.Role)},
		{"Language", string(s.Language)},
		{"Credits", fmt.Sprint(s.Credits)},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s  %s\n\n", brandStyle.Render("LEEMAZ"), quietStyle.Render("signed in"))
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s  %s\n", labelStyle.Render(fmt.Sprintf("%-9s", r.k)), r.v)
	}
	if note := originNote(origin); note != "" {
		fmt.Fprintf(&b, "\n  %s\n", warnStyle.Render(note))
	}
	b.WriteString("\n")
	fmt.Fprint(w, b.String())
}

func originNote(o session.Origin) string {
	switch o {
	case session.OriginDemo:
		return "demo account · nothing you do is saved to the server"
	case session.OriginCache:
		return "offline · showing your last known profile"
	case session.OriginOffline:
		return "offline · server unreachable and no saved profile"
	}
	return ""
}

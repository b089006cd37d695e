package tui

import (
	"fmt"
	"strings"
	"time"
)

// ageUnits are tried largest first by formatTime.
var ageUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

// formatTime renders a relative age for list rows; anything older than a
// week shows the date.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := time.Since(t)
	if age >= 7*24*time.Hour {
		return t.Format("Jan 2")
	}
	for _, u := range ageUnits {
		if age >= u.size {
			return fmt.Sprintf("%d%s ago", age/u.size, u.suffix)
		}
	}
	return "just now"
}

// formatChatTime shows a wall-clock time for today's messages and a day
// count otherwise.
func formatChatTime(t time.Time) string {
	now := time.Now()
	if sameDay(t, now) {
		return t.Format("15:04")
	}
	days := max(int(now.Sub(t)/(24*time.Hour)), 1)
	return fmt.Sprintf("%dd ago", days)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// formatPrice renders a price in US dollars.
func formatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}

// truncStr shortens s to maxLen runes, ending in an ellipsis when cut.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// padLines writes n blank lines so short message lists sit at the bottom.
func padLines(n int, b *strings.Builder) {
	if n > 0 {
		b.WriteString(strings.Repeat("\n", n))
	}
}

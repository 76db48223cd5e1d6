package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// formatUSD renders dollars with thousands separators: $12,345.67.
func formatUSD(v float64) string {
	if v < 0 {
		return "-" + numbers.Sprintf("$%.2f", -v)
	}
	return numbers.Sprintf("$%.2f", v)
}

// formatSOL renders a SOL amount with precision suited to its size.
func formatSOL(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs == 0:
		return "0 SOL"
	case abs < 0.01:
		return numbers.Sprintf("%.6f SOL", v)
	case abs < 100:
		return numbers.Sprintf("%.4f SOL", v)
	default:
		return numbers.Sprintf("%.2f SOL", v)
	}
}

// formatPercent renders a 0..1 fraction as a percentage.
func formatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// shortAddress abbreviates a base58 address to its head and tail.
func shortAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}

// formatAgo renders how long ago t was, coarsely.
func formatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatRemaining renders the time left until t.
func formatRemaining(t, now time.Time) string {
	if t.IsZero() {
		return "no deadline"
	}
	d := t.Sub(now)
	if d <= 0 {
		return "ended"
	}
	days := int(d.Hours() / 24)
	switch {
	case days >= 1:
		return fmt.Sprintf("%dd %dh left", days, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh %dm left", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dm left", int(math.Ceil(d.Minutes())))
	}
}

// truncate shortens s to width display cells, ending with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

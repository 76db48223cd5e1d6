package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: logo, campaign, refresh state and
// the SOL price on the left, the clock on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{bg.Render(logoText, styles.Logo)}

	switch {
	case m.snap.HasCampaign():
		name := m.snap.Campaign.Name
		if name == "" {
			name = shortAddress(m.snap.ContractAddress)
		}
		parts = append(parts, bg.Render(truncate(name, 28), styles.Text.Bold(true)))
		if badge := styles.StatusBadge(m.snap.Campaign.Status); badge != "" && !compact {
			parts = append(parts, badge)
		}
	case m.snap.Tracking():
		parts = append(parts, bg.Render(shortAddress(m.snap.ContractAddress), styles.MutedText))
	}

	if m.snap.Loading {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Render("loading", styles.AccentText))
	} else if m.snap.Error != "" {
		parts = append(parts, bg.Render("● ERROR", styles.DangerText))
	}

	parts = append(parts, m.refreshIndicator(styles, bg))

	price := fmt.Sprintf("SOL %s", formatUSD(m.quote.USD))
	if !m.quote.Live {
		price += "*"
	}
	parts = append(parts, bg.Render(price, styles.InfoText))

	if !compact {
		parts = append(parts,
			bg.Render("updated", styles.FaintText)+bg.Spaces(1)+
				bg.Render(formatAgo(m.snap.LastUpdated, m.now), styles.MutedText))
	}

	left := bg.Join(parts, 2)
	right := bg.Render(m.now.Format("15:04:05"), styles.MutedText)
	return styles.Header.Width(m.width).Render(bg.Spread(left, right, max(m.width-2, 0)))
}

func (m Model) refreshIndicator(styles Styles, bg BgStyle) string {
	switch {
	case m.snap.Polling && m.snap.AutoRefresh:
		return bg.Render("● LIVE", styles.SuccessText) + bg.Spaces(1) +
			bg.Render(fmt.Sprintf("every %s", m.snap.PollInterval), styles.FaintText)
	case m.snap.Polling:
		return bg.Render("● PAUSED", styles.WarningText)
	case m.snap.Tracking() && !m.snap.AutoRefresh:
		return bg.Render("○ AUTO OFF", styles.WarningText)
	default:
		return bg.Render("○ IDLE", styles.FaintText)
	}
}

// renderFooter renders the short key help plus any transient notice.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, bg.Render(h.Key, styles.Key)+bg.Spaces(1)+bg.Render(h.Desc, styles.MutedText))
	}
	left := bg.Join(hints, 3)

	right := ""
	if m.notice != "" {
		right = bg.Render(m.notice, styles.AccentText)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(bg.Spread(left, right, max(m.width-2, 0)))
}

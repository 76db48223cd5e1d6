package ui

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/backend"
)

// renderContributionChart draws one bar per contribution, oldest on the
// left. txs must be ordered newest first. Bars that do not fit are dropped
// from the old end; a short history is left-padded with empty bars so the
// newest contribution stays at the right edge.
func renderContributionChart(txs []backend.Transaction, width, height int, theme Theme) string {
	if len(txs) == 0 || width < 4 || height < 2 {
		return ""
	}

	maxBars := width / 2
	shown := min(len(txs), maxBars)

	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Bar)).
		Background(lipgloss.Color(theme.Bar))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Faint))

	for i := 0; i < maxBars-shown; i++ {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "empty", Value: 0, Style: emptyStyle}},
		})
	}
	for i := shown - 1; i >= 0; i-- {
		bc.Push(barchart.BarData{
			Values: []barchart.BarValue{{Name: "sol", Value: txs[i].Amount, Style: barStyle}},
		})
	}

	bc.Draw()
	return bc.View()
}

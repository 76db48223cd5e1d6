package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/backend"
	"github.com/five82/tally/internal/state"
)

const (
	maxContributionRows = 8
	wideLayoutWidth     = 100
)

func newProgressBar(theme Theme) progress.Model {
	return progress.New(
		progress.WithSolidFill(theme.Bar),
		progress.WithoutPercentage(),
	)
}

// renderDashboard picks between the loading, error and campaign screens.
func (m Model) renderDashboard(width, height int) string {
	switch {
	case m.startErr != nil:
		return m.renderErrorScreen(width, height, m.startErr.Error())
	case m.snap.Error != "" && !m.snap.HasCampaign():
		return m.renderErrorScreen(width, height, m.snap.Error)
	case !m.snap.HasCampaign():
		return m.renderLoadingScreen(width, height)
	}
	return m.renderCampaign(width)
}

func (m Model) renderLoadingScreen(width, height int) string {
	styles := m.theme.Styles()
	target := "Resolving campaign"
	if m.snap.Tracking() {
		target = "Loading campaign " + shortAddress(m.snap.ContractAddress)
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.Logo.Render(banner()),
		"",
		m.spinner.View()+" "+styles.MutedText.Render(target+"..."),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderErrorScreen(width, height int, message string) string {
	styles := m.theme.Styles()
	lines := []string{
		styles.DangerText.Render("Unable to load campaign"),
		"",
		styles.Text.Render(message),
	}
	if m.snap.Tracking() {
		lines = append(lines, "", styles.FaintText.Render("address "+m.snap.ContractAddress))
	}
	lines = append(lines, "",
		styles.MutedText.Render("press ")+styles.Key.Render("r")+styles.MutedText.Render(" to retry"))

	panel := styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Width(min(max(width-8, 20), 72)).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

// renderCampaign lays out the loaded campaign: title and progress, a row of
// stat tiles, then wallet details beside the contribution chart and list.
func (m Model) renderCampaign(width int) string {
	styles := m.theme.Styles()
	c := m.snap.Campaign
	inner := max(width-4, 10)

	var sections []string
	if m.snap.Error != "" {
		sections = append(sections, styles.WarningText.Render(
			truncate("⚠ "+m.snap.Error+" (showing last good data)", width)))
	}

	sections = append(sections, styles.Panel.Width(width-2).Render(m.renderTitleBlock(c, inner)))
	sections = append(sections, m.renderStats(width))

	wallet := m.renderWalletPanel()
	contributions := m.renderContributions()
	if width >= wideLayoutWidth {
		half := (width - 4) / 2
		left := styles.Panel.Width(half).Render(wallet)
		right := styles.Panel.Width(width - half - 6).Render(contributions)
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	} else {
		sections = append(sections,
			styles.Panel.Width(width-2).Render(wallet),
			styles.Panel.Width(width-2).Render(contributions))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBlock(c *backend.Campaign, width int) string {
	styles := m.theme.Styles()

	title := styles.Title.Render(c.Name)
	if c.Symbol != "" {
		title += " " + styles.MutedText.Render("$"+c.Symbol)
	}
	if badge := styles.StatusBadge(c.Status); badge != "" {
		title += "  " + badge
	}

	lines := []string{title}
	if desc := strings.TrimSpace(c.Description); desc != "" {
		lines = append(lines, styles.MutedText.Render(truncate(desc, width)))
	}

	bar := m.progress
	bar.Width = max(width-10, 10)
	progressLine := bar.ViewAs(c.Progress()) + " " + styles.Text.Bold(true).Render(formatPercent(c.Progress()))
	raised := styles.SuccessText.Render(formatUSD(c.CurrentBalance)) +
		styles.MutedText.Render(" raised of ") +
		styles.Text.Render(formatUSD(c.GoalAmount)) +
		styles.MutedText.Render(" goal")
	lines = append(lines, "", progressLine, raised)

	var meta []string
	if c.CampaignType != "" {
		meta = append(meta, c.CampaignType)
	}
	if c.TokenLaunchpad != "" {
		meta = append(meta, c.TokenLaunchpad)
	}
	if created := c.ParsedCreatedAt(); !created.IsZero() {
		meta = append(meta, "created "+created.Local().Format("2006-01-02"))
	}
	if len(meta) > 0 {
		lines = append(lines, styles.FaintText.Render(strings.Join(meta, " · ")))
	}
	return strings.Join(lines, "\n")
}

// stat is one tile in the stats row.
type stat struct {
	label string
	value string
}

func (m Model) campaignStats() []stat {
	snap := m.snap
	c := snap.Campaign
	txs := contributions(snap)

	total := snap.Transactions.TotalSOL()
	if snap.Transactions == nil {
		for _, tx := range txs {
			total += tx.Amount
		}
	}
	avg := "n/a"
	if count := transactionCount(snap); count > 0 && total > 0 {
		avg = formatSOL(total / float64(count))
	}

	return []stat{
		{"Contributors", fmt.Sprintf("%d", contributorCount(snap))},
		{"Transactions", fmt.Sprintf("%d", transactionCount(snap))},
		{"Total received", formatSOL(total)},
		{"Average", avg},
		{"Deadline", formatRemaining(c.ParsedExpiresAt(), m.now)},
	}
}

func (m Model) renderStats(width int) string {
	styles := m.theme.Styles()
	stats := m.campaignStats()

	perRow := len(stats)
	if width < wideLayoutWidth {
		perRow = 3
	}
	tileWidth := max(width/perRow-2, 12)

	var rows []string
	for start := 0; start < len(stats); start += perRow {
		end := min(start+perRow, len(stats))
		var tiles []string
		for _, s := range stats[start:end] {
			body := styles.FaintText.Render(s.label) + "\n" + styles.Text.Bold(true).Render(s.value)
			tiles = append(tiles, styles.Panel.Width(tileWidth).Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderWalletPanel() string {
	styles := m.theme.Styles()
	snap := m.snap
	row := func(label, value string) string {
		return styles.FaintText.Render(fmt.Sprintf("%-10s", label)) + " " + value
	}

	lines := []string{styles.Title.Render("Escrow wallet")}
	wallet := snap.WalletAddress()
	if wallet == "" {
		lines = append(lines, styles.MutedText.Render("No escrow wallet on this campaign."))
	} else {
		lines = append(lines, row("address", styles.Text.Render(wallet)))
		if snap.Balance != nil {
			sol := snap.Balance.Data.BalanceSOL
			lines = append(lines,
				row("balance", styles.SuccessText.Render(formatSOL(sol))),
				row("value", styles.Text.Render(formatUSD(snap.Balance.Data.BalanceUSD))),
				row("at spot", styles.MutedText.Render(formatUSD(sol*m.quote.USD))),
			)
		} else {
			lines = append(lines, row("balance", styles.MutedText.Render("unavailable")))
		}
		lines = append(lines, row("explorer", styles.InfoText.Render(app.ExplorerURL(wallet))))
	}

	if tok := snap.Token; tok != nil && tok.Data.Symbol != "" {
		d := tok.Data
		lines = append(lines, "", styles.Title.Render("Token"),
			row("token", styles.Text.Render(fmt.Sprintf("%s ($%s)", d.Name, d.Symbol))),
			row("price", styles.Text.Render(formatUSD(d.PriceUSD))),
			row("holders", styles.Text.Render(fmt.Sprintf("%d", d.HoldersCount))),
		)
	}

	price := formatUSD(m.quote.USD)
	if !m.quote.Live {
		price += styles.FaintText.Render(" (default)")
	}
	lines = append(lines, "", row("SOL/USD", styles.InfoText.Render(price)))
	return strings.Join(lines, "\n")
}

func (m Model) renderContributions() string {
	styles := m.theme.Styles()
	txs := contributions(m.snap)

	lines := []string{styles.Title.Render("Recent contributions")}
	if len(txs) == 0 {
		lines = append(lines, styles.MutedText.Render("No contributions yet."))
		return strings.Join(lines, "\n")
	}

	if !m.hideChart {
		if chart := renderContributionChart(txs, max(m.width/2-8, 20), 6, m.theme); chart != "" {
			lines = append(lines, chart, "")
		}
	}

	for _, tx := range txs[:min(len(txs), maxContributionRows)] {
		lines = append(lines,
			styles.SuccessText.Render(fmt.Sprintf("%-14s", formatSOL(tx.Amount)))+" "+
				styles.Text.Render(fmt.Sprintf("%-11s", shortAddress(tx.From)))+" "+
				styles.FaintText.Render(formatAgo(tx.Time(), m.now)))
	}
	if extra := len(txs) - maxContributionRows; extra > 0 {
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("+%d more", extra)))
	}
	return strings.Join(lines, "\n")
}

// contributions returns the known transactions newest first, preferring the
// full transaction list over the balance's recent sample.
func contributions(snap state.State) []backend.Transaction {
	var src []backend.Transaction
	switch {
	case snap.Transactions != nil && len(snap.Transactions.Transactions) > 0:
		src = snap.Transactions.Transactions
	case snap.Balance != nil:
		src = snap.Balance.Data.RecentTransactions
	}
	out := append([]backend.Transaction(nil), src...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

func contributorCount(snap state.State) int {
	if snap.Campaign != nil && snap.Campaign.ContributorCount > 0 {
		return snap.Campaign.ContributorCount
	}
	if snap.Transactions != nil {
		return len(snap.Transactions.Contributors)
	}
	return 0
}

func transactionCount(snap state.State) int {
	if snap.Transactions != nil && snap.Transactions.TransactionCount > 0 {
		return snap.Transactions.TransactionCount
	}
	if snap.Balance != nil {
		return snap.Balance.Data.TransactionCount
	}
	return 0
}

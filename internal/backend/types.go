package backend

import (
	"strings"
	"time"
)

const backendTimestampLayout = "2006-01-02T15:04:05.999999"

// CampaignDetail mirrors the payload returned by /api/campaign-detail.
type CampaignDetail struct {
	Success    bool      `json:"success"`
	CampaignID string    `json:"campaign_id,omitempty"`
	Escrow     string    `json:"escrow_address,omitempty"`
	Error      string    `json:"error,omitempty"`
	Campaign   *Campaign `json:"campaign"`
}

// Campaign describes a funding campaign and its escrow wallet.
type Campaign struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	ContractAddress  string  `json:"contract_address"`
	ImageURL         string  `json:"image_url"`
	WalletAddress    string  `json:"wallet_address"`
	GoalAmount       float64 `json:"goal_amount"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	ExpiresAt        string  `json:"expires_at"`
	CampaignType     string  `json:"campaign_type"`
	SocialTwitter    string  `json:"social_twitter"`
	SocialWebsite    string  `json:"social_website"`
	Description      string  `json:"description"`
	CurrentBalance   float64 `json:"current_balance"`
	ContributorCount int     `json:"contributor_count"`
	TokenLaunchpad   string  `json:"token_launchpad"`
	TokenSource      string  `json:"token_source"`
	Liquidity        string  `json:"liquidity"`
	MarketCap        string  `json:"market_cap"`
	PriceUSD         string  `json:"price_usd"`
	Volume24h        string  `json:"volume_24h"`
}

// HasWallet reports whether the campaign carries an escrow wallet address.
func (c *Campaign) HasWallet() bool {
	return c != nil && strings.TrimSpace(c.WalletAddress) != ""
}

// WithBalance returns a copy of the campaign with CurrentBalance replaced.
// The receiver is left untouched.
func (c Campaign) WithBalance(usd float64) *Campaign {
	c.CurrentBalance = usd
	return &c
}

// Progress returns the fraction of the goal reached, clamped to [0, 1].
func (c Campaign) Progress() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}
	p := c.CurrentBalance / c.GoalAmount
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (c Campaign) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// ParsedExpiresAt returns the parsed ExpiresAt timestamp.
func (c Campaign) ParsedExpiresAt() time.Time {
	return parseTime(c.ExpiresAt)
}

// EscrowTransactions mirrors /api/escrow-transactions.
type EscrowTransactions struct {
	TransactionCount int           `json:"transactionCount"`
	Contributors     []string      `json:"contributors"`
	Transactions     []Transaction `json:"transactions"`
}

// Transaction is a single contribution into the escrow wallet.
type Transaction struct {
	Signature string  `json:"signature"`
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	Timestamp int64   `json:"timestamp"`
}

// Time returns the transaction timestamp.
func (t Transaction) Time() time.Time {
	if t.Timestamp <= 0 {
		return time.Time{}
	}
	return time.Unix(t.Timestamp, 0)
}

// TotalSOL sums the amounts of all listed transactions.
func (e *EscrowTransactions) TotalSOL() float64 {
	if e == nil {
		return 0
	}
	var total float64
	for _, tx := range e.Transactions {
		total += tx.Amount
	}
	return total
}

// EscrowBalance mirrors /api/escrow-balance.
type EscrowBalance struct {
	Success bool        `json:"success"`
	Data    BalanceData `json:"data"`
}

// BalanceData carries the escrow wallet balance.
type BalanceData struct {
	Address            string        `json:"address"`
	BalanceSOL         float64       `json:"balanceSOL"`
	BalanceUSD         float64       `json:"balanceUSD"`
	TransactionCount   int           `json:"transactionCount"`
	RecentTransactions []Transaction `json:"recentTransactions"`
}

// TokenInfo mirrors /api/token.
type TokenInfo struct {
	Status string    `json:"status"`
	Data   TokenData `json:"data"`
}

// TokenData describes token metadata.
type TokenData struct {
	ContractAddress string  `json:"contract_address"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	Decimals        int     `json:"decimals"`
	PriceUSD        float64 `json:"price_usd"`
	TotalSupply     string  `json:"total_supply"`
	HoldersCount    int     `json:"holders_count"`
}

// Health mirrors /api/health.
type Health struct {
	Status         string          `json:"status"`
	Timestamp      string          `json:"timestamp"`
	SOLPrice       float64         `json:"sol_price"`
	CampaignStatus *CampaignStatus `json:"campaign_status"`
}

// CampaignStatus summarises the campaigns monitored by the backend.
type CampaignStatus struct {
	ActiveCampaigns  int               `json:"active_campaigns"`
	Campaigns        []CampaignSummary `json:"campaigns"`
	CurrentSOLPrice  float64           `json:"current_sol_price"`
	MonitoringActive bool              `json:"monitoring_active"`
}

// CampaignSummary is a monitored campaign listed by the health check.
type CampaignSummary struct {
	CampaignID    string `json:"campaign_id"`
	WalletAddress string `json:"wallet_address"`
	Description   string `json:"description"`
}

// CampaignQR mirrors /api/campaigns/{id}/qr.
type CampaignQR struct {
	QRCode        string `json:"qr_code"`
	SolanaPayURI  string `json:"solana_pay_uri"`
	EscrowAddress string `json:"escrow_address"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(backendTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

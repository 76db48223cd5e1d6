package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/tally/internal/metrics"
)

// Gateway defines the campaign backend calls used by the store and controller.
// This interface is implemented by *Client and can be faked in tests.
type Gateway interface {
	FetchCampaignDetail(ctx context.Context, contractAddress string) (*CampaignDetail, error)
	FetchEscrowTransactions(ctx context.Context, walletAddress string) (*EscrowTransactions, error)
	FetchEscrowBalance(ctx context.Context, walletAddress string) (*EscrowBalance, error)
	FetchTokenInfo(ctx context.Context, contractAddress string) (*TokenInfo, error)
	FetchHealthCheck(ctx context.Context) (*Health, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// Endpoint names used for metrics labels.
const (
	EndpointCampaignDetail = "campaign_detail"
	EndpointTransactions   = "escrow_transactions"
	EndpointBalance        = "escrow_balance"
	EndpointToken          = "token"
	EndpointHealth         = "health"
	EndpointQR             = "campaign_qr"
)

// Client talks to the campaign backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL        = "http://127.0.0.1:8000"
	defaultUserAgent      = "tally/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// NewClient builds a Client for the backend at baseURL. A zero timeout uses
// the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalised backend URL.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchCampaignDetail retrieves a campaign by its contract address.
func (c *Client) FetchCampaignDetail(ctx context.Context, contractAddress string) (*CampaignDetail, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	addr := strings.TrimSpace(contractAddress)
	if addr == "" {
		return nil, fmt.Errorf("contract address required")
	}
	var payload CampaignDetail
	rel := &url.URL{Path: "/api/campaign-detail/" + url.PathEscape(addr)}
	if err := c.doURL(ctx, EndpointCampaignDetail, rel, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchEscrowTransactions retrieves contributions into an escrow wallet.
func (c *Client) FetchEscrowTransactions(ctx context.Context, walletAddress string) (*EscrowTransactions, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	wallet := strings.TrimSpace(walletAddress)
	if wallet == "" {
		return nil, fmt.Errorf("wallet address required")
	}
	var payload EscrowTransactions
	rel := &url.URL{Path: "/api/escrow-transactions/" + url.PathEscape(wallet)}
	if err := c.doURL(ctx, EndpointTransactions, rel, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchEscrowBalance retrieves the SOL and USD balance of an escrow wallet.
func (c *Client) FetchEscrowBalance(ctx context.Context, walletAddress string) (*EscrowBalance, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	wallet := strings.TrimSpace(walletAddress)
	if wallet == "" {
		return nil, fmt.Errorf("wallet address required")
	}
	values := url.Values{}
	values.Set("wallet", wallet)
	rel := &url.URL{Path: "/api/escrow-balance", RawQuery: values.Encode()}
	var payload EscrowBalance
	if err := c.doURL(ctx, EndpointBalance, rel, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchTokenInfo retrieves token metadata for a contract address.
func (c *Client) FetchTokenInfo(ctx context.Context, contractAddress string) (*TokenInfo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	addr := strings.TrimSpace(contractAddress)
	if addr == "" {
		return nil, fmt.Errorf("contract address required")
	}
	var payload TokenInfo
	rel := &url.URL{Path: "/api/token/" + url.PathEscape(addr)}
	if err := c.doURL(ctx, EndpointToken, rel, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchHealthCheck retrieves backend health, the SOL price and monitored campaigns.
func (c *Client) FetchHealthCheck(ctx context.Context) (*Health, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Health
	if err := c.doURL(ctx, EndpointHealth, &url.URL{Path: "/api/health"}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchCampaignQR retrieves a Solana Pay QR code for a campaign. A zero
// amount omits the amount parameter.
func (c *Client) FetchCampaignQR(ctx context.Context, campaignID string, amount float64) (*CampaignQR, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	id := strings.TrimSpace(campaignID)
	if id == "" {
		return nil, fmt.Errorf("campaign id required")
	}
	values := url.Values{}
	if amount > 0 {
		values.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	}
	rel := &url.URL{Path: "/api/campaigns/" + url.PathEscape(id) + "/qr", RawQuery: values.Encode()}
	var payload CampaignQR
	if err := c.doURL(ctx, EndpointQR, rel, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) doURL(ctx context.Context, endpoint string, rel *url.URL, dest any) (err error) {
	start := time.Now()
	metrics.FetchTotal.WithLabelValues(endpoint).Inc()
	defer func() {
		metrics.FetchLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.FetchErrors.WithLabelValues(endpoint).Inc()
		}
	}()

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError reports a non-success HTTP status from the backend.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

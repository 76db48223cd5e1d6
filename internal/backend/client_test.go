package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:8000" {
		t.Fatalf("url = %q, want http://127.0.0.1:8000", u.String())
	}

	u, err = parseBaseURL("https://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("backend.local:9000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "backend.local:9000" {
		t.Fatalf("url = %q, want http://backend.local:9000", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL(http://) returned nil error, want missing host")
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotBalanceQuery url.Values
	var gotQRQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/campaign-detail/ADDR1":
			_ = json.NewEncoder(w).Encode(CampaignDetail{
				Success:  true,
				Campaign: &Campaign{Name: "X", WalletAddress: "W1", GoalAmount: 1000},
			})
		case "/api/escrow-transactions/W1":
			_ = json.NewEncoder(w).Encode(EscrowTransactions{
				TransactionCount: 2,
				Transactions:     []Transaction{{Signature: "s1", Amount: 1.5}, {Signature: "s2", Amount: 0.5}},
			})
		case "/api/escrow-balance":
			gotBalanceQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"success":true,"data":{"balanceSOL":2,"balanceUSD":300}}`))
		case "/api/token/MINT":
			_, _ = w.Write([]byte(`{"status":"success","data":{"symbol":"TLY","price_usd":0.01}}`))
		case "/api/health":
			_, _ = w.Write([]byte(`{"status":"healthy","sol_price":150.5,"campaign_status":{"campaigns":[{"campaign_id":"c1","wallet_address":"W1"}]}}`))
		case "/api/campaigns/c1/qr":
			gotQRQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(CampaignQR{SolanaPayURI: "solana:W1?amount=0.25", EscrowAddress: "W1"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	detail, err := c.FetchCampaignDetail(ctx, "ADDR1")
	if err != nil {
		t.Fatalf("FetchCampaignDetail returned error: %v", err)
	}
	if !detail.Success || detail.Campaign == nil || detail.Campaign.WalletAddress != "W1" {
		t.Fatalf("FetchCampaignDetail payload = %#v, want success with wallet W1", detail)
	}

	txs, err := c.FetchEscrowTransactions(ctx, "W1")
	if err != nil {
		t.Fatalf("FetchEscrowTransactions returned error: %v", err)
	}
	if txs.TransactionCount != 2 || txs.TotalSOL() != 2 {
		t.Fatalf("FetchEscrowTransactions = %#v, want 2 transactions totalling 2 SOL", txs)
	}

	bal, err := c.FetchEscrowBalance(ctx, "W1")
	if err != nil {
		t.Fatalf("FetchEscrowBalance returned error: %v", err)
	}
	if !bal.Success || bal.Data.BalanceUSD != 300 {
		t.Fatalf("FetchEscrowBalance = %#v, want balanceUSD 300", bal)
	}
	if gotBalanceQuery.Get("wallet") != "W1" {
		t.Fatalf("FetchEscrowBalance query = %v, want wallet=W1", gotBalanceQuery)
	}

	token, err := c.FetchTokenInfo(ctx, "MINT")
	if err != nil {
		t.Fatalf("FetchTokenInfo returned error: %v", err)
	}
	if token.Data.Symbol != "TLY" {
		t.Fatalf("FetchTokenInfo symbol = %q, want TLY", token.Data.Symbol)
	}

	health, err := c.FetchHealthCheck(ctx)
	if err != nil {
		t.Fatalf("FetchHealthCheck returned error: %v", err)
	}
	if health.SOLPrice != 150.5 || health.CampaignStatus == nil || len(health.CampaignStatus.Campaigns) != 1 {
		t.Fatalf("FetchHealthCheck = %#v, want price and one campaign", health)
	}

	qr, err := c.FetchCampaignQR(ctx, "c1", 0.25)
	if err != nil {
		t.Fatalf("FetchCampaignQR returned error: %v", err)
	}
	if qr.EscrowAddress != "W1" || gotQRQuery.Get("amount") != "0.25" {
		t.Fatalf("FetchCampaignQR = %#v query %v, want escrow W1 amount=0.25", qr, gotQRQuery)
	}

	if !strings.HasPrefix(gotUserAgent, "tally/") {
		t.Fatalf("User-Agent = %q, want tally/*", gotUserAgent)
	}
}

func TestClient_RequiresIdentifiers(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()
	if _, err := c.FetchCampaignDetail(ctx, " "); err == nil {
		t.Fatalf("FetchCampaignDetail returned nil error, want error")
	}
	if _, err := c.FetchEscrowTransactions(ctx, ""); err == nil {
		t.Fatalf("FetchEscrowTransactions returned nil error, want error")
	}
	if _, err := c.FetchEscrowBalance(ctx, ""); err == nil {
		t.Fatalf("FetchEscrowBalance returned nil error, want error")
	}
	if _, err := c.FetchCampaignQR(ctx, "", 0); err == nil {
		t.Fatalf("FetchCampaignQR returned nil error, want error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchHealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchHealthCheck error = %v, want decode response error", err)
	}

	_, err = c.FetchCampaignDetail(context.Background(), "ADDR1")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchCampaignDetail error = %v, want status 500 error", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("FetchCampaignDetail error = %#v, want *StatusError with code 500", err)
	}
}

func TestCampaign_WithBalanceDoesNotMutate(t *testing.T) {
	orig := &Campaign{Name: "X", WalletAddress: "W1", CurrentBalance: 10, GoalAmount: 100}
	updated := orig.WithBalance(300)
	if orig.CurrentBalance != 10 {
		t.Fatalf("original CurrentBalance = %v, want 10", orig.CurrentBalance)
	}
	if updated.CurrentBalance != 300 || updated.Name != "X" {
		t.Fatalf("updated = %#v, want balance 300 and name X", updated)
	}
	if updated.Progress() != 1 {
		t.Fatalf("Progress = %v, want clamped 1", updated.Progress())
	}
	if orig.Progress() != 0.1 {
		t.Fatalf("Progress = %v, want 0.1", orig.Progress())
	}
}

func TestCampaign_HasWalletAndParsedTimes(t *testing.T) {
	var nilCampaign *Campaign
	if nilCampaign.HasWallet() {
		t.Fatalf("nil campaign HasWallet = true, want false")
	}
	if (&Campaign{WalletAddress: "  "}).HasWallet() {
		t.Fatalf("blank wallet HasWallet = true, want false")
	}

	c := Campaign{CreatedAt: "2025-01-02T03:04:05Z", ExpiresAt: "2025-02-01T00:00:00.123456"}
	if got := c.ParsedCreatedAt(); got.Year() != 2025 || got.Hour() != 3 {
		t.Fatalf("ParsedCreatedAt = %v, want 2025-01-02 03:04:05", got)
	}
	if got := c.ParsedExpiresAt(); got.Month() != time.February {
		t.Fatalf("ParsedExpiresAt = %v, want February", got)
	}
	if got := (Campaign{CreatedAt: "garbage"}).ParsedCreatedAt(); !got.IsZero() {
		t.Fatalf("ParsedCreatedAt(garbage) = %v, want zero", got)
	}
}

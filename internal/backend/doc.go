// Package backend provides an HTTP client for the campaign escrow backend.
//
// # Overview
//
// The backend tracks funding campaigns whose contributions land in an
// on-chain escrow wallet. This package wraps its read-only JSON API:
//
//   - /api/campaign-detail/{address}: campaign record keyed by contract address
//   - /api/escrow-transactions/{wallet}: contributions into the escrow wallet
//   - /api/escrow-balance?wallet=: SOL and USD balance of the escrow wallet
//   - /api/token/{address}: token metadata
//   - /api/health: backend health, SOL price and monitored campaigns
//   - /api/campaigns/{id}/qr: Solana Pay QR code for contributing
//
// # Client Usage
//
//	client, err := backend.NewClient("https://campaigns.example.com", 10*time.Second)
//	if err != nil {
//		return err
//	}
//	detail, err := client.FetchCampaignDetail(ctx, address)
//
// # Errors
//
// Transport failures are wrapped with "execute request", malformed bodies with
// "decode response". Non-success HTTP codes are returned as *StatusError so
// callers can inspect the code with errors.As. Payload-level failures
// (success=false) are not errors at this layer; the caller decides whether
// they are fatal.
//
// Every request is counted and timed in the metrics package under its
// endpoint label.
package backend

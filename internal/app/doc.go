// Package app is the composition root shared by the tally front ends.
//
// # Overview
//
// A Session owns the state.Store for one dashboard and the backend client it
// refreshes from. The TUI and the HTTP bridge each build one Session and drive
// it with the same small vocabulary:
//
//   - Start / Track: resolve an address and call Store.Initialize
//   - Retry: Initialize again with the last address after a fatal error
//   - Refresh: manual refresh, joining any cycle already running
//   - SetVisible: pause polling while hidden, resume when shown
//   - Close: Store.Cleanup on exit
//
// # Address Resolution
//
//  1. The address given on the command line or in the request
//  2. The address key from config
//  3. wallet_address of the first campaign in the backend health report
//  4. FallbackAddress
//
// Addresses from steps 1 and 2 must decode as Solana public keys. A health
// check failure at step 3 is logged at warn level and resolution moves on.
//
// # SOL Price
//
// PriceTracker polls the health check on its own cadence (one minute by
// default) and exposes the latest sol_price. Until the first report, and
// after any failed check, it quotes DefaultSOLPrice. Views use it to show
// SOL amounts next to USD figures.
//
// # Data Flow
//
//	┌──────────────┐   Start    ┌──────────────┐  fetch   ┌──────────────┐
//	│  TUI / HTTP  │──────────→│   Session    │────────→│   backend    │
//	└──────┬───────┘            └──────┬───────┘          └──────────────┘
//	       │ Subscribe                 │ Initialize
//	       │                    ┌──────▼───────┐
//	       └───────────────────→│ state.Store  │
//	                            └──────────────┘
package app

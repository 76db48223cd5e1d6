// Package state holds the single source of truth for the tally dashboard.
//
// # Overview
//
// A Store owns one State record describing the tracked campaign: the last
// good payload from each backend endpoint, the loading flag, the most recent
// fatal error, and the polling settings. Views never talk to the backend
// directly. They subscribe to the Store and render whatever snapshot they
// were last handed.
//
// # Architecture
//
//	 Controller / TUI / HTTP           Store                  Backend
//	┌────────────────────┐     ┌──────────────────┐     ┌──────────────┐
//	│ Initialize(addr)   │────→│ session gen N    │     │              │
//	│ Refresh()          │────→│ singleflight     │────→│ campaign     │
//	│ StartPolling()     │────→│ poll goroutine   │     │ transactions │
//	│ Cleanup()          │     │       ↓          │     │ balance      │
//	│                    │←────│ commit + notify  │     │              │
//	└────────────────────┘     └──────────────────┘     └──────────────┘
//
// # Transitions
//
// All mutation goes through Update, which takes typed Change values and
// applies them as one transition:
//
//	store.Update(state.Loading(true), state.ClearError())
//
// Every registered Listener is called exactly once per Update, in
// registration order, with the merged snapshot. Listeners run while the
// commit lock is held so they observe transitions in commit order. They must
// return quickly and must not call Store mutators; hand the snapshot to a
// channel or mailbox instead.
//
// # Refresh Cycle
//
// One cycle runs three steps in order:
//
//  1. Campaign detail for the tracked address. A transport error, a payload
//     with success=false, or a missing campaign is fatal: Error is set to
//     "Campaign data fetch failed: <reason>" and the cycle stops. Data from
//     earlier cycles is kept.
//  2. Escrow transactions for the campaign's wallet address.
//  3. Escrow balance for the same wallet. On success the USD balance is
//     folded into a new copy of the campaign record. A later cycle whose
//     balance step fails keeps the last good balance folded in.
//
// Steps 2 and 3 are skipped when the campaign has no wallet address. Their
// failures are logged at warn level and never touch Error. LastUpdated is
// stamped only when step 1 succeeded, and never moves backwards. Loading is
// always released when the cycle ends.
//
// Concurrent Refresh calls share the cycle already in flight rather than
// starting another.
//
// # Sessions
//
// Initialize and Cleanup open a new session. Opening a session cancels the
// previous one's context, so its HTTP requests abort, and any commit it
// still attempts is discarded. A slow response for an old address can
// therefore never overwrite data for the new one.
//
// # Polling
//
// StartPolling runs a ticker goroutine at State.PollInterval. Each tick
// refreshes only when AutoRefresh is on and a campaign has been loaded.
// Starting polling again replaces the existing loop; there is never more
// than one. StopPolling waits for the loop to exit. A loop belongs to the
// session it was started for and never starts for a superseded one.
//
// # Lock Order
//
//	pollMu → commitMu → mu
//	commitMu → sessMu
//	pollMu → sessMu
//
// # Usage Example
//
//	store := state.NewStore(state.Options{Gateway: client, Logger: logger})
//	unsubscribe := store.Watch(func(s state.State) {
//		select {
//		case mailbox <- s:
//		default:
//		}
//	})
//	defer unsubscribe()
//
//	store.Initialize(ctx, address)
//	defer store.Cleanup()
package state

// Package ui provides the terminal dashboard for tally.
//
// # Architecture Overview
//
// The dashboard is a Bubble Tea program. It never fetches anything itself:
// a Controller (normally *app.Session) owns the state.Store and the SOL
// price tracker, and the Model renders whatever the Store last published.
//
// # Package Structure
//
//   - app.go: Model, Options, messages, commands and Run
//   - header.go: status bar and footer
//   - dashboard.go: loading, error and campaign screens
//   - chart.go: contribution bar chart (ntcharts)
//   - logs.go: log file viewer built on logtail and a viewport
//   - help.go: key binding overlay
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//   - format.go: money, address and duration formatting
//
// # Event Flow
//
//  1. Run subscribes a mailbox to the Store and starts the program.
//  2. Init launches Controller.Start, which resolves the address and
//     performs the first refresh cycle.
//  3. Each Store commit replaces the mailbox's pending snapshot; the
//     waitForSnapshot command delivers it as a snapshotMsg.
//  4. A one-second tick advances the clock, reads the SOL quote and, in the
//     log view, re-reads the log file.
//  5. Focus and blur reports pause and resume polling; ctrl+z does the same
//     around suspension.
//  6. On exit Run closes the session, which cancels any cycle in flight and
//     resets the Store.
//
// # Mailbox
//
// Store listeners run while the Store holds its commit lock, so the listener
// must not block on the UI. The mailbox is a one-slot channel: a new snapshot
// evicts an unread one, and the UI always renders the latest state.
//
// # Key Bindings
//
//   - r: Retry after a fatal error
//   - R: Refresh now
//   - a: Toggle auto-refresh
//   - c: Toggle the contribution chart
//   - l: Toggle the log view
//   - T: Cycle theme
//   - ?: Help
//   - ctrl+z: Suspend
//   - q or ctrl+c: Quit
//
// Theme and chart visibility are saved to the preferences file.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Session:   session,
//		Address:   address,
//		Prefs:     p,
//		PrefsPath: cfg.PrefsPath,
//		LogFile:   cfg.LogFile,
//		Logger:    logger,
//	})
package ui

// Package config loads tally's runtime settings.
//
// # Resolution Order
//
// Values are layered by viper, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML config file (~/.config/tally/config.toml unless --config is given)
//  3. TALLY_* environment variables (dashes become underscores, so
//     poll-interval is read from TALLY_POLL_INTERVAL)
//  4. Command-line flags that were explicitly set
//
// A missing default config file is ignored. A missing file named with
// --config is an error.
//
// # Keys
//
//   - api-url: backend base URL (http://127.0.0.1:8000)
//   - address: contract address to track when none is passed on the command line
//   - poll-interval: refresh cadence (10s)
//   - auto-refresh: whether polling ticks refresh (true)
//   - price-interval: SOL price poll cadence (60s)
//   - request-timeout: per-request HTTP timeout (10s)
//   - log-level: zap level name (info)
//   - log-file: log destination for the TUI (~/.local/share/tally/tally.log)
//   - listen: bind address for tally serve (127.0.0.1:8787)
//   - prefs: preferences file (~/.config/tally/prefs.toml)
//
// Paths beginning with ~ are expanded against the user's home directory.
package config

package state

import (
	"time"

	"github.com/five82/tally/internal/backend"
)

// DefaultPollInterval is the refresh cadence used when none is configured.
const DefaultPollInterval = 10 * time.Second

// State is the canonical record of what the dashboard knows about the tracked
// campaign. Values handed out by the Store are snapshots: the payload pointers
// they carry are never mutated after being stored, so holding a snapshot
// across later updates is safe. Callers must not mutate payloads in place.
type State struct {
	// ContractAddress is the identifier currently being tracked ("" when idle).
	ContractAddress string

	// Campaign merges the last good campaign record with the last good balance.
	Campaign *backend.Campaign

	// Last-known-good payload per endpoint.
	CampaignData *backend.CampaignDetail
	Transactions *backend.EscrowTransactions
	Balance      *backend.EscrowBalance
	Token        *backend.TokenInfo

	Loading     bool
	Error       string
	LastUpdated time.Time

	PollInterval time.Duration
	AutoRefresh  bool

	// Polling reports whether the polling loop is active.
	Polling bool
}

// Tracking reports whether a campaign address is set.
func (s State) Tracking() bool {
	return s.ContractAddress != ""
}

// HasCampaign reports whether a campaign record has been loaded.
func (s State) HasCampaign() bool {
	return s.Campaign != nil
}

// WalletAddress returns the escrow wallet of the loaded campaign, if any.
func (s State) WalletAddress() string {
	if !s.Campaign.HasWallet() {
		return ""
	}
	return s.Campaign.WalletAddress
}

func defaultState(pollInterval time.Duration, autoRefresh bool) State {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return State{
		PollInterval: pollInterval,
		AutoRefresh:  autoRefresh,
	}
}

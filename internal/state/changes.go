package state

import (
	"time"

	"github.com/five82/tally/internal/backend"
)

// Change is a typed transition applied to the state record by Store.Update.
type Change func(*State)

// Tracking sets the tracked contract address.
func Tracking(address string) Change {
	return func(s *State) {
		s.ContractAddress = address
	}
}

// Loading sets the in-flight flag.
func Loading(loading bool) Change {
	return func(s *State) {
		s.Loading = loading
	}
}

// Failed records a fatal cycle error and releases the loading flag.
func Failed(message string) Change {
	return func(s *State) {
		s.Error = message
		s.Loading = false
	}
}

// ClearError clears the error field.
func ClearError() Change {
	return func(s *State) {
		s.Error = ""
	}
}

// CampaignLoaded stores a campaign-detail payload and its embedded campaign.
// The last good escrow balance stays folded into the new campaign until a
// later balance replaces it.
func CampaignLoaded(detail *backend.CampaignDetail) Change {
	return func(s *State) {
		s.CampaignData = detail
		if detail == nil {
			return
		}
		s.Campaign = detail.Campaign
		if s.Campaign != nil && s.Balance != nil && s.Balance.Success {
			s.Campaign = s.Campaign.WithBalance(s.Balance.Data.BalanceUSD)
		}
	}
}

// TransactionsLoaded replaces the transactions payload wholesale.
func TransactionsLoaded(txs *backend.EscrowTransactions) Change {
	return func(s *State) {
		s.Transactions = txs
	}
}

// BalanceLoaded replaces the balance payload and folds its USD balance into a
// fresh copy of the current campaign. The previous campaign value is not
// touched.
func BalanceLoaded(balance *backend.EscrowBalance) Change {
	return func(s *State) {
		s.Balance = balance
		if balance != nil && s.Campaign != nil {
			s.Campaign = s.Campaign.WithBalance(balance.Data.BalanceUSD)
		}
	}
}

// TokenLoaded stores a token payload.
func TokenLoaded(token *backend.TokenInfo) Change {
	return func(s *State) {
		s.Token = token
	}
}

// Refreshed stamps LastUpdated. The stamp never moves backwards: a clock
// reading at or before the previous stamp lands one nanosecond after it.
func Refreshed(at time.Time) Change {
	return func(s *State) {
		stamp := at
		if !stamp.After(s.LastUpdated) {
			stamp = s.LastUpdated.Add(time.Nanosecond)
		}
		s.LastUpdated = stamp
	}
}

// AutoRefresh toggles whether polling ticks trigger refreshes.
func AutoRefresh(on bool) Change {
	return func(s *State) {
		s.AutoRefresh = on
	}
}

func pollingActive(on bool) Change {
	return func(s *State) {
		s.Polling = on
	}
}

// dropData clears everything learned about a previously tracked campaign.
func dropData() Change {
	return func(s *State) {
		s.Campaign = nil
		s.CampaignData = nil
		s.Transactions = nil
		s.Balance = nil
		s.Token = nil
		s.LastUpdated = time.Time{}
	}
}

func reset(defaults State) Change {
	return func(s *State) {
		*s = defaults
	}
}

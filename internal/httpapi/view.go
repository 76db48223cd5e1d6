package httpapi

import (
	"time"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/backend"
	"github.com/five82/tally/internal/state"
)

// StateView is the JSON form of a store snapshot.
type StateView struct {
	ContractAddress string                      `json:"contract_address"`
	Campaign        *backend.Campaign           `json:"campaign"`
	CampaignData    *backend.CampaignDetail     `json:"campaign_data"`
	Transactions    *backend.EscrowTransactions `json:"transactions"`
	Balance         *backend.EscrowBalance      `json:"balance"`
	Token           *backend.TokenInfo          `json:"token"`
	Loading         bool                        `json:"loading"`
	Error           *string                     `json:"error"`
	LastUpdated     *time.Time                  `json:"last_updated"`
	PollInterval    string                      `json:"poll_interval"`
	AutoRefresh     bool                        `json:"auto_refresh"`
	Polling         bool                        `json:"polling"`
	Progress        float64                     `json:"progress"`
	SOLPrice        float64                     `json:"sol_price"`
	SOLPriceLive    bool                        `json:"sol_price_live"`
	ExplorerURL     string                      `json:"explorer_url,omitempty"`
}

// NewStateView converts a snapshot and the current SOL quote.
func NewStateView(st state.State, quote app.Quote) StateView {
	v := StateView{
		ContractAddress: st.ContractAddress,
		Campaign:        st.Campaign,
		CampaignData:    st.CampaignData,
		Transactions:    st.Transactions,
		Balance:         st.Balance,
		Token:           st.Token,
		Loading:         st.Loading,
		PollInterval:    st.PollInterval.String(),
		AutoRefresh:     st.AutoRefresh,
		Polling:         st.Polling,
		SOLPrice:        quote.USD,
		SOLPriceLive:    quote.Live,
	}
	if st.Error != "" {
		msg := st.Error
		v.Error = &msg
	}
	if !st.LastUpdated.IsZero() {
		at := st.LastUpdated
		v.LastUpdated = &at
	}
	if st.Campaign != nil {
		v.Progress = st.Campaign.Progress()
	}
	if wallet := st.WalletAddress(); wallet != "" {
		v.ExplorerURL = app.ExplorerURL(wallet)
	}
	return v
}

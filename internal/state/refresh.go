package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/five82/tally/internal/backend"
	"github.com/five82/tally/internal/metrics"
)

const fatalPrefix = "Campaign data fetch failed"

var (
	errAddressRequired = errors.New("contract address required")
	errNoGateway       = errors.New("no backend configured")
	errStale           = errors.New("session superseded")
)

func fatalMessage(err error) string {
	return fmt.Sprintf("%s: %v", fatalPrefix, err)
}

// refresh runs, or joins, the cycle for sess. ctx bounds only the wait; the
// cycle itself lives as long as its session. The returned error is non-nil
// when the cycle failed fatally, went stale, or ctx ended first.
func (s *Store) refresh(ctx context.Context, sess *session) error {
	if !s.State().Tracking() {
		return nil
	}
	select {
	case res := <-s.cycle(sess):
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cycle starts the cycle for sess, or joins the one in flight.
func (s *Store) cycle(sess *session) <-chan singleflight.Result {
	key := strconv.FormatUint(sess.gen, 10)
	return s.flight.DoChan(key, func() (any, error) {
		return nil, s.runCycle(sess)
	})
}

// runCycle executes the three-step fetch sequence. Only a campaign-detail
// failure is fatal; escrow failures are logged and leave prior data alone.
func (s *Store) runCycle(sess *session) error {
	log := s.log.With(zap.String("cycle", uuid.NewString()), zap.Uint64("session", sess.gen))

	address := s.State().ContractAddress
	if !s.commit(sess, Loading(true), ClearError()) {
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeStale).Inc()
		return errStale
	}
	// Released on every path, including fatal and stale exits.
	defer s.commit(sess, Loading(false))

	if s.gateway == nil {
		s.commit(sess, Failed(fatalMessage(errNoGateway)))
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeFatal).Inc()
		return errNoGateway
	}

	// Step 1: campaign detail. Fatal on any failure.
	log.Debug("fetching campaign detail", zap.String("address", address))
	detail, err := s.gateway.FetchCampaignDetail(sess.ctx, address)
	if err == nil {
		err = detailError(detail)
	}
	if err != nil {
		msg := fatalMessage(err)
		log.Error("campaign detail fetch failed", zap.String("address", address), zap.Error(err))
		if !s.commit(sess, Failed(msg)) {
			metrics.RefreshCycles.WithLabelValues(metrics.OutcomeStale).Inc()
			return errStale
		}
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeFatal).Inc()
		return errors.New(msg)
	}
	if !s.commit(sess, CampaignLoaded(detail)) {
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeStale).Inc()
		return errStale
	}
	log.Debug("campaign loaded", zap.String("name", detail.Campaign.Name))

	degraded := false
	if !detail.Campaign.HasWallet() {
		log.Debug("no wallet address; skipping escrow fetches")
	} else {
		wallet := strings.TrimSpace(detail.Campaign.WalletAddress)
		log := log.With(zap.String("wallet", wallet))

		// Step 2: transactions. Degraded on failure.
		txs, err := s.gateway.FetchEscrowTransactions(sess.ctx, wallet)
		if err == nil && txs == nil {
			err = errors.New("empty transactions payload")
		}
		if err != nil {
			degraded = true
			log.Warn("transactions fetch failed", zap.Error(err))
		} else {
			s.commit(sess, TransactionsLoaded(txs))
			log.Debug("transactions loaded", zap.Int("count", txs.TransactionCount))
		}

		// Step 3: balance. Degraded on failure.
		balance, err := s.gateway.FetchEscrowBalance(sess.ctx, wallet)
		if err == nil {
			err = balanceError(balance)
		}
		if err != nil {
			degraded = true
			log.Warn("escrow balance fetch failed", zap.Error(err))
		} else {
			s.commit(sess, BalanceLoaded(balance))
			log.Debug("escrow balance updated", zap.Float64("sol", balance.Data.BalanceSOL), zap.Float64("usd", balance.Data.BalanceUSD))
		}
	}

	if !s.commit(sess, Refreshed(s.now())) {
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeStale).Inc()
		return errStale
	}
	metrics.LastRefresh.Set(float64(s.State().LastUpdated.Unix()))
	if degraded {
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeDegraded).Inc()
	} else {
		metrics.RefreshCycles.WithLabelValues(metrics.OutcomeOK).Inc()
	}
	return nil
}

func detailError(detail *backend.CampaignDetail) error {
	if detail == nil {
		return errors.New("empty campaign payload")
	}
	if !detail.Success {
		if msg := strings.TrimSpace(detail.Error); msg != "" {
			return errors.New(msg)
		}
		return errors.New("Failed to fetch campaign data")
	}
	if detail.Campaign == nil {
		return errors.New("campaign missing from payload")
	}
	return nil
}

func balanceError(balance *backend.EscrowBalance) error {
	if balance == nil {
		return errors.New("empty balance payload")
	}
	if !balance.Success {
		return errors.New("balance payload reported failure")
	}
	return nil
}

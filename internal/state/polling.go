package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/tally/internal/metrics"
)

// StartPolling installs the polling loop, replacing any active one. Each tick
// refreshes when auto-refresh is on and a campaign is loaded.
func (s *Store) StartPolling() {
	s.startPolling(s.currentSession())
}

// startPolling installs a loop bound to sess. It does nothing once sess has
// been superseded. The check runs under pollMu.
func (s *Store) startPolling(sess *session) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if !s.isCurrent(sess) {
		return
	}
	s.stopPollingLocked()

	interval := s.State().PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.pollCancel = cancel
	s.pollDone = done
	go s.poll(ctx, sess, interval, done)

	metrics.Polling.Set(1)
	s.Update(pollingActive(true))
	s.log.Debug("polling started", zap.Duration("interval", interval))
}

// StopPolling cancels the polling loop and waits for it to exit. It is a
// no-op when polling is not active. A cycle already in flight completes on
// its own.
func (s *Store) StopPolling() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if !s.stopPollingLocked() {
		return
	}
	metrics.Polling.Set(0)
	s.Update(pollingActive(false))
	s.log.Debug("polling stopped")
}

// IsPolling reports whether the polling loop is active.
func (s *Store) IsPolling() bool {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	return s.pollCancel != nil
}

func (s *Store) stopPollingLocked() bool {
	if s.pollCancel == nil {
		return false
	}
	s.pollCancel()
	<-s.pollDone
	s.pollCancel = nil
	s.pollDone = nil
	return true
}

func (s *Store) poll(ctx context.Context, sess *session, interval time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		st := s.State()
		if !st.AutoRefresh || !st.HasCampaign() {
			continue
		}
		if err := s.refresh(ctx, sess); err != nil && ctx.Err() == nil {
			s.log.Debug("polled refresh did not complete", zap.Error(err))
		}
	}
}

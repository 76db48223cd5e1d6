package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/five82/tally/internal/backend"
)

// Gateway is the subset of the backend the store refreshes from.
type Gateway interface {
	FetchCampaignDetail(ctx context.Context, contractAddress string) (*backend.CampaignDetail, error)
	FetchEscrowTransactions(ctx context.Context, walletAddress string) (*backend.EscrowTransactions, error)
	FetchEscrowBalance(ctx context.Context, walletAddress string) (*backend.EscrowBalance, error)
	FetchTokenInfo(ctx context.Context, contractAddress string) (*backend.TokenInfo, error)
}

// Listener receives a snapshot after every state change. Listeners run
// synchronously inside the commit and must not block or call back into the
// Store's mutating methods.
type Listener func(State)

// Options configure a Store.
type Options struct {
	Gateway            Gateway
	Logger             *zap.Logger
	PollInterval       time.Duration // zero uses DefaultPollInterval
	DisableAutoRefresh bool
	Now                func() time.Time // zero uses time.Now
}

type subscription struct {
	id uint64
	fn Listener
}

// session scopes one tracking target. Cycles started under a session whose
// generation is no longer current have their writes discarded.
type session struct {
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Store owns the application state and coordinates refresh and polling.
type Store struct {
	gateway  Gateway
	log      *zap.Logger
	now      func() time.Time
	defaults State

	// commitMu serialises merge+notify so listeners observe commit order.
	commitMu sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    uint64

	sessMu sync.Mutex
	sess   *session

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollDone   chan struct{}

	flight singleflight.Group
}

// NewStore builds a Store in its initial, untracked state.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	defaults := defaultState(opts.PollInterval, !opts.DisableAutoRefresh)
	s := &Store{
		gateway:  opts.Gateway,
		log:      logger,
		now:      now,
		defaults: defaults,
		state:    defaults,
	}
	s.sess = newSession(0)
	return s
}

func newSession(gen uint64) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{gen: gen, ctx: ctx, cancel: cancel}
}

// Subscribe registers l and returns a function that removes it. The returned
// function is safe to call more than once.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool {
				return sub.id == id
			})
		})
	}
}

// Watch registers l and hands it the current snapshot before any later
// change reaches it.
func (s *Store) Watch(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	unsubscribe = s.Subscribe(l)
	l(s.State())
	return unsubscribe
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies changes as one transition and notifies every listener once
// with the resulting snapshot.
func (s *Store) Update(changes ...Change) {
	s.commit(nil, changes...)
}

// commit applies changes unless sess has gone stale. It reports whether the
// changes were applied.
func (s *Store) commit(sess *session, changes ...Change) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if sess != nil && !s.isCurrent(sess) {
		return false
	}

	s.mu.Lock()
	next := s.state
	for _, change := range changes {
		if change != nil {
			change(&next)
		}
	}
	s.state = next
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(next)
	}
	return true
}

func (s *Store) isCurrent(sess *session) bool {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return s.sess.gen == sess.gen
}

func (s *Store) currentSession() *session {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	return s.sess
}

// openSession cancels the current session and starts the next one.
func (s *Store) openSession() *session {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	s.sess.cancel()
	s.sess = newSession(s.sess.gen + 1)
	return s.sess
}

// Initialize starts tracking address: it runs one refresh cycle and starts
// polling unless that cycle failed fatally. Calling it again replaces the
// target. Data from a different previous address is dropped first.
//
// ctx bounds only the wait. When it ends first the cycle keeps running and
// polling still starts once it succeeds.
func (s *Store) Initialize(ctx context.Context, address string) {
	sess := s.openSession()
	s.StopPolling()

	changes := []Change{Tracking(address), Loading(true), ClearError()}
	if prev := s.State().ContractAddress; prev != address {
		changes = append(changes, dropData())
	}
	if address == "" {
		changes = append(changes, Failed(fatalMessage(errAddressRequired)))
		s.commit(sess, changes...)
		return
	}
	s.commit(sess, changes...)

	s.log.Info("tracking campaign", zap.String("address", address), zap.Uint64("session", sess.gen))
	ch := s.cycle(sess)
	select {
	case res := <-ch:
		s.pollAfter(sess, res.Err)
	case <-ctx.Done():
		go func() {
			res := <-ch
			s.pollAfter(sess, res.Err)
		}()
	}
}

// pollAfter starts polling for sess once its first cycle succeeded.
func (s *Store) pollAfter(sess *session, err error) {
	if err != nil {
		return
	}
	s.startPolling(sess)
}

// Refresh runs one refresh cycle for the tracked address. It is a no-op when
// nothing is tracked. Concurrent calls share the cycle already in flight.
func (s *Store) Refresh(ctx context.Context) {
	_ = s.refresh(ctx, s.currentSession())
}

// FetchTokenData loads token metadata outside the refresh sequence. Failures
// are logged and keep the previous token payload.
func (s *Store) FetchTokenData(ctx context.Context, address string) {
	if s.gateway == nil || address == "" {
		return
	}
	sess := s.currentSession()
	token, err := s.gateway.FetchTokenInfo(ctx, address)
	if err != nil {
		s.log.Warn("token fetch failed", zap.String("address", address), zap.Error(err))
		return
	}
	s.commit(sess, TokenLoaded(token))
}

// SetAutoRefresh toggles whether polling ticks refresh.
func (s *Store) SetAutoRefresh(on bool) {
	s.Update(AutoRefresh(on))
}

// Cleanup stops polling, abandons in-flight cycles and resets the state to
// its initial defaults.
func (s *Store) Cleanup() {
	s.openSession()
	s.StopPolling()
	s.Update(reset(s.defaults))
	s.log.Debug("store reset")
}

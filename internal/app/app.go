package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/tally/internal/backend"
	"github.com/five82/tally/internal/config"
	"github.com/five82/tally/internal/state"
)

// Session wires one Store to the backend and translates lifecycle events
// from a front end (TUI or HTTP) into Store calls.
type Session struct {
	cfg     config.Config
	backend backend.Gateway
	store   *state.Store
	prices  *PriceTracker
	log     *zap.Logger

	mu      sync.Mutex
	address string
}

// NewSession builds a Session around gw. The Store starts idle.
func NewSession(cfg config.Config, gw backend.Gateway, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := state.NewStore(state.Options{
		Gateway:            gw,
		Logger:             logger.Named("store"),
		PollInterval:       cfg.PollInterval,
		DisableAutoRefresh: !cfg.AutoRefresh,
	})
	return &Session{
		cfg:     cfg,
		backend: gw,
		store:   store,
		prices:  NewPriceTracker(gw, cfg.PriceInterval, logger.Named("price")),
		log:     logger,
	}
}

// New builds the HTTP client from cfg and returns a Session using it.
func New(cfg config.Config, logger *zap.Logger) (*Session, error) {
	client, err := backend.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init backend client: %w", err)
	}
	return NewSession(cfg, client, logger), nil
}

// Store returns the session's Store.
func (s *Session) Store() *state.Store { return s.store }

// Prices returns the session's SOL price tracker.
func (s *Session) Prices() *PriceTracker { return s.prices }

// Backend returns the gateway the session fetches from.
func (s *Session) Backend() backend.Gateway { return s.backend }

// Address returns the most recently tracked address, which survives Close so
// that Retry can reuse it.
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// ResolveAddress picks the address to track: explicit, then the configured
// address, then the health check's first campaign, then FallbackAddress.
func (s *Session) ResolveAddress(ctx context.Context, explicit string) (string, error) {
	return resolveAddress(ctx, explicit, s.cfg.Address, s.backend, s.log)
}

// Start resolves the address and begins tracking it.
func (s *Session) Start(ctx context.Context, explicit string) (string, error) {
	address, err := s.ResolveAddress(ctx, explicit)
	if err != nil {
		return "", err
	}
	s.Track(ctx, address)
	return address, nil
}

// Track initialises the Store for address and loads its token metadata.
// Fatal refresh failures surface in the Store's Error field.
func (s *Session) Track(ctx context.Context, address string) {
	address = strings.TrimSpace(address)
	s.mu.Lock()
	s.address = address
	s.mu.Unlock()

	s.store.Initialize(ctx, address)
	if s.store.State().Error == "" {
		s.store.FetchTokenData(ctx, address)
	}
}

// Retry re-initialises tracking for the last address.
func (s *Session) Retry(ctx context.Context) {
	address := s.store.State().ContractAddress
	if address == "" {
		address = s.Address()
	}
	if address == "" {
		return
	}
	s.Track(ctx, address)
}

// Refresh runs a manual refresh, joining any cycle in flight.
func (s *Session) Refresh(ctx context.Context) {
	s.store.Refresh(ctx)
}

// ToggleAutoRefresh flips auto-refresh and returns the new setting.
func (s *Session) ToggleAutoRefresh() bool {
	on := !s.store.State().AutoRefresh
	s.store.SetAutoRefresh(on)
	return on
}

// SetVisible pauses polling while the front end is hidden and resumes it
// when shown again, provided a campaign has been loaded.
func (s *Session) SetVisible(visible bool) {
	if !visible {
		s.store.StopPolling()
		s.log.Debug("front end hidden; polling paused")
		return
	}
	if s.store.State().HasCampaign() {
		s.store.StartPolling()
		s.log.Debug("front end visible; polling resumed")
	}
}

// RunPrices keeps the SOL price current until ctx ends.
func (s *Session) RunPrices(ctx context.Context) {
	s.prices.Run(ctx)
}

// Close stops polling and resets the Store.
func (s *Session) Close() {
	s.store.Cleanup()
}

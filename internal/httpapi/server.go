// Package httpapi exposes a tally Session over HTTP for headless use.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/state"
)

// Controller is the session surface the HTTP API drives.
type Controller interface {
	Store() *state.Store
	Prices() *app.PriceTracker
	ResolveAddress(ctx context.Context, explicit string) (string, error)
	Track(ctx context.Context, address string)
	Refresh(ctx context.Context)
	SetVisible(visible bool)
	Close()
}

var _ Controller = (*app.Session)(nil)

const (
	defaultAddr       = "127.0.0.1:8787"
	heartbeatInterval = 25 * time.Second
)

// Server serves the JSON and SSE API.
type Server struct {
	addr      string
	ctrl      Controller
	log       *zap.Logger
	mu        sync.Mutex
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a Server bound to addr.
func NewServer(addr string, ctrl Controller, logger *zap.Logger) *Server {
	if addr == "" {
		addr = defaultAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		ctrl:      ctrl,
		log:       logger,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/state", s.handleState)
	api.GET("/events", s.handleEvents)
	api.POST("/track", s.handleTrack)
	api.DELETE("/track", s.handleUntrack)
	api.POST("/refresh", s.handleRefresh)
	api.POST("/visibility", s.handleVisibility)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// ListenAndServe serves until Stop is called. It returns nil after a clean
// shutdown.
func (s *Server) ListenAndServe() error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return nil
	}
	s.server = srv
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.log.Info("http api listening", zap.String("addr", listener.Addr().String()))

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server. Open event streams end first.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) view() StateView {
	return NewStateView(s.ctrl.Store().State(), s.ctrl.Prices().Quote())
}

func (s *Server) handleHealth(c *gin.Context) {
	st := s.ctrl.Store().State()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"tracking": st.ContractAddress,
		"polling":  st.Polling,
	})
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.view())
}

func (s *Server) handleTrack(c *gin.Context) {
	var req struct {
		Address string `json:"address"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}

	address, err := s.ctrl.ResolveAddress(c.Request.Context(), strings.TrimSpace(req.Address))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Tracking outlives the request; only the wait is bounded by it.
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.ctrl.Track(s.ctx, address)
	}()
	select {
	case <-done:
	case <-c.Request.Context().Done():
		return
	}

	v := s.view()
	if v.Error != nil {
		c.JSON(http.StatusBadGateway, v)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleUntrack(c *gin.Context) {
	s.ctrl.Close()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRefresh(c *gin.Context) {
	if !s.ctrl.Store().State().Tracking() {
		c.JSON(http.StatusConflict, gin.H{"error": "no campaign is being tracked"})
		return
	}
	s.ctrl.Refresh(c.Request.Context())

	v := s.view()
	if v.Error != nil {
		c.JSON(http.StatusBadGateway, v)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleVisibility(c *gin.Context) {
	var req struct {
		Visible *bool `json:"visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing visible field"})
		return
	}
	s.ctrl.SetVisible(*req.Visible)
	c.JSON(http.StatusOK, gin.H{
		"visible": *req.Visible,
		"polling": s.ctrl.Store().IsPolling(),
	})
}

// handleEvents streams a "state" event for the current snapshot and then for
// every change. Slow clients skip intermediate snapshots.
func (s *Server) handleEvents(c *gin.Context) {
	mailbox := make(chan state.State, 1)
	push := func(st state.State) {
		select {
		case <-mailbox:
		default:
		}
		select {
		case mailbox <- st:
		default:
		}
	}
	unsubscribe := s.ctrl.Store().Watch(push)
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ctx.Done():
			return
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
		case st := <-mailbox:
			c.SSEvent("state", NewStateView(st, s.ctrl.Prices().Quote()))
		}
		c.Writer.Flush()
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/httpapi"
	"github.com/five82/tally/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [address]",
		Short: "Serve campaign state over HTTP",
		Long: `Run headless and expose the campaign state over a JSON API with a
server-sent event stream at /api/events and Prometheus metrics at /metrics.

With an address (or --track) tracking starts immediately; otherwise a client
starts it with POST /api/track.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServe,
	}
	cmd.Flags().String("listen", "", "HTTP listen address (default 127.0.0.1:8787)")
	cmd.Flags().Bool("track", false, "resolve and track an address on startup")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, logging.Stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	srv := httpapi.NewServer(cfg.Listen, sess, logger.Named("http"))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sess.RunPrices(gctx)
		return nil
	})
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http api: %w", err)
		}
		return nil
	})

	track, _ := cmd.Flags().GetBool("track")
	if explicit := addressArg(args); explicit != "" || track || cfg.Address != "" {
		g.Go(func() error {
			address, err := sess.Start(gctx, explicit)
			if err != nil {
				return err
			}
			logger.Info("tracking campaign", zap.String("address", address))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("serve stopped", zap.Error(err))
		return err
	}
	logger.Info("serve stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/logging"
	"github.com/five82/tally/internal/prefs"
	"github.com/five82/tally/internal/ui"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [address]",
		Short: "Open the live campaign dashboard",
		Long: `Open the terminal dashboard for a campaign.

The address is taken from the argument, then --address or the config file,
then the first campaign reported by the backend health check.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
	cmd.Flags().String("log-file", "", "log file (default ~/.local/share/tally/tally.log)")
	cmd.Flags().String("prefs", "", "preferences file (default ~/.config/tally/prefs.toml)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to Bubble Tea, so logs always go to a file here.
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	p, err := prefs.Load(cfg.PrefsPath)
	if err != nil {
		logger.Warn("load preferences", zap.String("path", cfg.PrefsPath), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	go sess.RunPrices(ctx)

	logger.Info("dashboard starting",
		zap.String("api_url", cfg.APIURL),
		zap.Duration("poll_interval", cfg.PollInterval),
	)
	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   sess,
		Address:   addressArg(args),
		Prefs:     p,
		PrefsPath: cfg.PrefsPath,
		LogFile:   cfg.LogFile,
		Logger:    logger.Named("ui"),
	})
}

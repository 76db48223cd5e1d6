package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/five82/tally/internal/config"
)

// Build variables, set by ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tally",
		Short:        "Live dashboard for a crowdfunding campaign and its escrow wallet",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		return loadDotenv()
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.config/tally/config.toml)")
	flags.String("api-url", "", "campaign backend base URL")
	flags.String("address", "", "contract address to track")
	flags.Duration("poll-interval", 0, "campaign refresh interval")
	flags.Bool("auto-refresh", true, "refresh on every polling tick")
	flags.Duration("price-interval", 0, "SOL price refresh interval")
	flags.Duration("request-timeout", 0, "per-request backend timeout")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newWatchCmd(), newServeCmd(), newStatusCmd(), newQRCmd())
	return root
}

// loadDotenv reads .env from the working directory when present. Variables
// already in the environment win.
func loadDotenv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(cfgFile, cmd.Flags())
}

// addressArg returns the optional positional address.
func addressArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}

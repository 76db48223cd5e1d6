package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/httpapi"
	"github.com/five82/tally/internal/logging"
	"github.com/five82/tally/internal/state"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [address]",
		Short: "Fetch the campaign once and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "print the full state as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	sess.Prices().Refresh(ctx)
	if _, err := sess.Start(ctx, addressArg(args)); err != nil {
		return err
	}
	st := sess.Store().State()
	quote := sess.Prices().Quote()

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(httpapi.NewStateView(st, quote)); err != nil {
			return err
		}
	} else if err := printStatus(out, st, quote); err != nil {
		return err
	}

	if st.Error != "" {
		return errors.New(st.Error)
	}
	return nil
}

func printStatus(w io.Writer, st state.State, quote app.Quote) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, format string, args ...any) {
		fmt.Fprintf(tw, "%s\t%s\n", label, fmt.Sprintf(format, args...))
	}

	row("Address", "%s", st.ContractAddress)
	if c := st.Campaign; c != nil {
		row("Campaign", "%s", c.Name)
		if c.Status != "" {
			row("Status", "%s", c.Status)
		}
		row("Raised", "$%.2f of $%.2f (%.1f%%)", c.CurrentBalance, c.GoalAmount, c.Progress()*100)
		row("Contributors", "%d", c.ContributorCount)
	}
	if wallet := st.WalletAddress(); wallet != "" {
		row("Escrow", "%s", wallet)
		row("Explorer", "%s", app.ExplorerURL(wallet))
	}
	if st.Balance != nil {
		row("Balance", "%.4f SOL ($%.2f)", st.Balance.Data.BalanceSOL, st.Balance.Data.BalanceUSD)
	}
	if st.Transactions != nil {
		row("Transactions", "%d", st.Transactions.TransactionCount)
	}
	price := fmt.Sprintf("$%.2f", quote.USD)
	if !quote.Live {
		price += " (default)"
	}
	row("SOL/USD", "%s", price)
	if !st.LastUpdated.IsZero() {
		row("Updated", "%s", st.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	}
	if st.Error != "" {
		row("Error", "%s", st.Error)
	}
	return tw.Flush()
}

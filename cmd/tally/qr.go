package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/tally/internal/backend"
)

func newQRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr <campaign-id>",
		Short: "Print the Solana Pay contribution link for a campaign",
		Args:  cobra.ExactArgs(1),
		RunE:  runQR,
	}
	cmd.Flags().Float64("amount", 0, "prefill the SOL amount")
	cmd.Flags().Bool("json", false, "print the full response as JSON")
	return cmd
}

func runQR(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetFloat64("amount")
	if amount < 0 {
		return errors.New("amount must not be negative")
	}

	client, err := backend.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qr, err := client.FetchCampaignQR(ctx, args[0], amount)
	if err != nil {
		return fmt.Errorf("fetch qr: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(qr)
	}
	fmt.Fprintln(out, qr.SolanaPayURI)
	if qr.EscrowAddress != "" {
		fmt.Fprintf(out, "escrow: %s\n", qr.EscrowAddress)
	}
	return nil
}

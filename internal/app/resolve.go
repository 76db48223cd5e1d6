package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/five82/tally/internal/backend"
)

// FallbackAddress is tracked when nothing else names a campaign.
const FallbackAddress = "FuXL5ZYZc6YBGkRxWQ98k1f64QSGWXtLwNN2Dj5f3XYf"

// HealthChecker reads the backend health report.
type HealthChecker interface {
	FetchHealthCheck(ctx context.Context) (*backend.Health, error)
}

// ValidateAddress checks that address is a base58-encoded Solana public key.
func ValidateAddress(address string) error {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return fmt.Errorf("invalid address %q: %w", address, err)
	}
	return nil
}

// ExplorerURL links an account on Solscan.
func ExplorerURL(address string) string {
	return "https://solscan.io/account/" + address
}

// resolveAddress picks the campaign to track. An explicit or configured
// address must be a valid public key. Otherwise the first campaign reported
// by the health check is used, then FallbackAddress. A failed health check is
// logged and never returned.
func resolveAddress(ctx context.Context, explicit, configured string, health HealthChecker, log *zap.Logger) (string, error) {
	for _, candidate := range []struct {
		source, value string
	}{
		{"argument", explicit},
		{"config", configured},
	} {
		value := strings.TrimSpace(candidate.value)
		if value == "" {
			continue
		}
		if err := ValidateAddress(value); err != nil {
			return "", fmt.Errorf("%s: %w", candidate.source, err)
		}
		return value, nil
	}

	if health == nil {
		return FallbackAddress, nil
	}
	report, err := health.FetchHealthCheck(ctx)
	if err != nil {
		log.Warn("health check failed; using fallback address", zap.Error(err))
		return FallbackAddress, nil
	}
	if report.CampaignStatus != nil && len(report.CampaignStatus.Campaigns) > 0 {
		first := report.CampaignStatus.Campaigns[0]
		if wallet := strings.TrimSpace(first.WalletAddress); wallet != "" {
			log.Info("using campaign from health check", zap.String("campaign", first.CampaignID), zap.String("address", wallet))
			return wallet, nil
		}
	}
	log.Info("no campaigns in health check; using fallback address")
	return FallbackAddress, nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad_MissingDefaultConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	if !cfg.AutoRefresh {
		t.Fatal("AutoRefresh = false, want true")
	}
	if cfg.PriceInterval != defaultPriceInterval {
		t.Fatalf("PriceInterval = %v, want %v", cfg.PriceInterval, defaultPriceInterval)
	}
	wantLog := filepath.Join(home, ".local/share/tally/tally.log")
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	wantPrefs := filepath.Join(home, ".config/tally/prefs.toml")
	if cfg.PrefsPath != wantPrefs {
		t.Fatalf("PrefsPath = %q, want %q", cfg.PrefsPath, wantPrefs)
	}
}

func TestLoad_MissingExplicitConfigFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil); err == nil {
		t.Fatal("Load returned nil error for missing explicit config")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api-url = "  http://10.0.0.5:9000  "
address = " FuXL5ZYZc6YBGkRxWQ98k1f64QSGWXtLwNN2Dj5f3XYf "
poll-interval = "30s"
auto-refresh = false
log-file = "~/logs/tally.log"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9000" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9000")
	}
	if cfg.Address != "FuXL5ZYZc6YBGkRxWQ98k1f64QSGWXtLwNN2Dj5f3XYf" {
		t.Fatalf("Address = %q", cfg.Address)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.AutoRefresh {
		t.Fatal("AutoRefresh = true, want false")
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api-url = "http://file:1"
listen = "127.0.0.1:1111"
log-level = "warn"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("TALLY_LISTEN", "127.0.0.1:2222")
	t.Setenv("TALLY_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("api-url", "", "")
	if err := flags.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://file:1" {
		t.Fatalf("APIURL = %q, want file value", cfg.APIURL)
	}
	if cfg.Listen != "127.0.0.1:2222" {
		t.Fatalf("Listen = %q, want env value", cfg.Listen)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want flag value", cfg.LogLevel)
	}
}

func TestLoad_RejectsNonPositiveIntervals(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`poll-interval = "0s"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path, nil)
	if err == nil || !strings.Contains(err.Error(), "poll-interval") {
		t.Fatalf("Load error = %v, want poll-interval error", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "~/x.toml", want: filepath.Join(home, "x.toml")},
		{in: "  ~/y  ", want: filepath.Join(home, "y")},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := expandPath(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expandPath(%q) returned nil error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("expandPath(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

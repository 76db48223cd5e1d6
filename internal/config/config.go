package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every tally command.
type Config struct {
	APIURL         string
	Address        string
	PollInterval   time.Duration
	AutoRefresh    bool
	PriceInterval  time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	LogFile        string
	Listen         string
	PrefsPath      string
}

const (
	defaultConfigPath     = "~/.config/tally/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8000"
	defaultPollInterval   = 10 * time.Second
	defaultPriceInterval  = 60 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "info"
	defaultLogFile        = "~/.local/share/tally/tally.log"
	defaultListen         = "127.0.0.1:8787"
	defaultPrefsPath      = "~/.config/tally/prefs.toml"

	envPrefix = "TALLY"
)

// Load merges defaults, the config file, TALLY_* environment variables and
// flags, in increasing order of precedence. A missing default config file is
// not an error; a missing explicit one is.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api-url", defaultAPIURL)
	v.SetDefault("address", "")
	v.SetDefault("poll-interval", defaultPollInterval)
	v.SetDefault("auto-refresh", true)
	v.SetDefault("price-interval", defaultPriceInterval)
	v.SetDefault("request-timeout", defaultRequestTimeout)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-file", defaultLogFile)
	v.SetDefault("listen", defaultListen)
	v.SetDefault("prefs", defaultPrefsPath)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if strings.TrimSpace(cfgFile) != "" {
		resolved, err := expandPath(cfgFile)
		if err != nil {
			return Config{}, err
		}
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigFile(mustExpand(defaultConfigPath))
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		APIURL:         strings.TrimSpace(v.GetString("api-url")),
		Address:        strings.TrimSpace(v.GetString("address")),
		PollInterval:   v.GetDuration("poll-interval"),
		AutoRefresh:    v.GetBool("auto-refresh"),
		PriceInterval:  v.GetDuration("price-interval"),
		RequestTimeout: v.GetDuration("request-timeout"),
		LogLevel:       strings.TrimSpace(v.GetString("log-level")),
		LogFile:        strings.TrimSpace(v.GetString("log-file")),
		Listen:         strings.TrimSpace(v.GetString("listen")),
		PrefsPath:      strings.TrimSpace(v.GetString("prefs")),
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills blank values and expands home-relative paths.
func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.PrefsPath == "" {
		c.PrefsPath = defaultPrefsPath
	}
	c.LogFile = mustExpand(c.LogFile)
	c.PrefsPath = mustExpand(c.PrefsPath)
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive, got %s", c.PollInterval)
	}
	if c.PriceInterval <= 0 {
		return fmt.Errorf("price-interval must be positive, got %s", c.PriceInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request-timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

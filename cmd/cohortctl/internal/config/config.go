package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/client"
)

type contextKey string

const configKey contextKey = "cohortctl-config"

// EnvPrefix namespaces every environment variable read by cohortctl.
const EnvPrefix = "COHORT"

// DefaultHost is used when neither --host nor COHORT_HOST is set.
const DefaultHost = "demo.localhost"

// GlobalConfig holds shared configuration for all cohortctl commands.
// It is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	// Host is the dashboard hostname the tenant is resolved from.
	Host string
	// BaseURL overrides the address resolved from Host.
	BaseURL        string
	Debug          bool
	NonInteractive bool

	Logger         *slog.Logger
	ClientProvider *client.Provider
}

// Init wires viper to the COHORT_* environment and the optional config file.
// An explicit configFile must exist; the default ~/.cohort/config.yaml may be absent.
func Init(configFile string) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("host", DefaultHost)
	viper.SetDefault("base-url", "")
	viper.SetDefault("debug", false)
	viper.SetDefault("non-interactive", false)

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(filepath.Join(home, ".cohort"))
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load builds a GlobalConfig from viper. Flags bound with viper.BindPFlag take
// precedence over COHORT_* variables, which take precedence over the config file.
func Load() (*GlobalConfig, error) {
	cfg := &GlobalConfig{
		Host:           strings.TrimSpace(viper.GetString("host")),
		BaseURL:        strings.TrimRight(strings.TrimSpace(viper.GetString("base-url")), "/"),
		Debug:          viper.GetBool("debug"),
		NonInteractive: viper.GetBool("non-interactive"),
	}

	if cfg.Host == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("a host is required (--host or %s_HOST)", EnvPrefix)
	}
	if cfg.BaseURL != "" && !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("base URL %q must start with http:// or https://", cfg.BaseURL)
	}

	cfg.Logger = NewLogger(cfg.Debug)
	return cfg, nil
}

// NewLogger routes slog through pterm. Only warnings and errors are shown
// unless debug is set.
func NewLogger(debug bool) *slog.Logger {
	level := pterm.LogLevelWarn
	if debug {
		level = pterm.LogLevelDebug
	}
	logger := pterm.DefaultLogger.WithLevel(level).WithWriter(os.Stderr)
	return slog.New(pterm.NewSlogHandler(logger))
}

// InjectConfig adds config to the cobra command context.
// This should be called in the root command's PersistentPreRunE.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// This should only be used in command RunE functions where we know
// the config has been injected by the root command.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("cohortctl: config not found in context - this is a bug in cohortctl")
	}
	return cfg
}

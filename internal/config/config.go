package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultGatewayURL = "https://gateway.edufin.local"
	defaultTimeout    = 30 * time.Second
)

// Config is the client configuration, resolved as environment over config
// file over built-in defaults.
type Config struct {
	// GatewayURL is the single HTTP entry point fronting the backend
	// microservices.
	GatewayURL string `env:"EDUFIN_GATEWAY_URL"`

	// Timeout bounds every gateway call.
	Timeout time.Duration `env:"EDUFIN_TIMEOUT" envDefault:"30s"`

	// StateDir overrides where the token, bypass flag and preferences are
	// persisted. Empty means ~/.edufin.
	StateDir string `env:"EDUFIN_STATE_DIR"`

	// CacheDir enables disk caching for public catalog reads.
	CacheDir string `env:"EDUFIN_CACHE_DIR"`

	// AuthEnabled is the build-out switch. When false, authentication is
	// disabled app-wide and the session is permanently bypassed.
	AuthEnabled bool `env:"EDUFIN_AUTH_ENABLED" envDefault:"true"`

	// AuthOff mirrors the ?auth=off entry flag: requesting it once persists
	// bypass mode until logout.
	AuthOff bool `env:"EDUFIN_AUTH_OFF" envDefault:"false"`

	Debug bool `env:"EDUFIN_DEBUG" envDefault:"false"`
}

// fileConfig is the subset settable through ~/.edufin/config.yaml.
type fileConfig struct {
	GatewayURL string `yaml:"gateway_url"`
	StateDir   string `yaml:"state_dir"`
	CacheDir   string `yaml:"cache_dir"`
}

// Load resolves configuration from the environment, an optional config
// file, and defaults. In dev a .env file is honored first.
func Load() (*Config, error) {
	if os.Getenv("EDUFIN_ENV") == "dev" {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.applyFile(defaultConfigPath()); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyFile fills settings the environment left empty from a YAML config
// file. A missing file is fine.
func (c *Config) applyFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if c.GatewayURL == "" {
		c.GatewayURL = fc.GatewayURL
	}
	if c.StateDir == "" {
		c.StateDir = fc.StateDir
	}
	if c.CacheDir == "" {
		c.CacheDir = fc.CacheDir
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.GatewayURL == "" {
		c.GatewayURL = defaultGatewayURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".edufin", "config.yaml")
}

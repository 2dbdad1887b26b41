package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultInclusionTimeout = int(TxConfirmTimeout / time.Second)

	configFile = "config.json"

	maxSS58Prefix = 16383
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.inkctl.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".inkctl")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.DefaultURL == "" {
		cfg.DefaultURL = DefaultURL
	}
	if cfg.InclusionTimeout <= 0 {
		cfg.InclusionTimeout = defaultInclusionTimeout
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// SetURL validates and stores the default node endpoint.
func (c *Config) SetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid url %q: scheme must be ws or wss", raw)
	}
	c.DefaultURL = raw
	return nil
}

// SetSS58Prefix stores the address format used for display. Prefixes above
// 16383 cannot be SS58-encoded.
func (c *Config) SetSS58Prefix(prefix uint64) error {
	if prefix > maxSS58Prefix {
		return fmt.Errorf("invalid SS58 prefix %d: must be 0-%d", prefix, maxSS58Prefix)
	}
	c.SS58Prefix = uint16(prefix)
	return nil
}

// SetInclusionTimeout stores the block inclusion wait in seconds.
func (c *Config) SetInclusionTimeout(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", seconds)
	}
	c.InclusionTimeout = seconds
	return nil
}

// Timeout returns the inclusion wait as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.InclusionTimeout) * time.Second
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

func defaults(dir string) *Config {
	return &Config{
		DefaultURL:       DefaultURL,
		SS58Prefix:       DefaultSS58Prefix,
		InclusionTimeout: defaultInclusionTimeout,
		configDir:        dir,
	}
}

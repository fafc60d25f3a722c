package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.qoo/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	DisplayName    string `toml:"display_name"`
	AutoSignIn     bool   `toml:"auto_sign_in"`
	Theme          string `toml:"theme"`

	// Simulation timing. Zero values fall back to defaults.
	TypingDelayMS int `toml:"typing_delay_ms"`
	ReplyDelayMS  int `toml:"reply_delay_ms"`
	CallTickMS    int `toml:"call_tick_ms"`

	// Seed for the generated dataset; 0 means randomize per launch.
	Seed uint64 `toml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultProfile: "main",
		DisplayName:    "You",
		Theme:          "dark",
		TypingDelayMS:  500,
		ReplyDelayMS:   1500,
		CallTickMS:     1000,
	}
}

// TypingDelay is how long after an outgoing text the typing indicator shows.
func (c *Config) TypingDelay() time.Duration {
	return millis(c.TypingDelayMS, 500)
}

// ReplyDelay is how long after the typing indicator the canned reply lands.
func (c *Config) ReplyDelay() time.Duration {
	return millis(c.ReplyDelayMS, 1500)
}

// CallTick is the in-call duration ticker period.
func (c *Config) CallTick() time.Duration {
	return millis(c.CallTickMS, 1000)
}

func millis(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Millisecond
}

// Load reads config from the given path. Returns error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault reads config from path, falling back to Default on any error.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = "main"
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = "You"
	}
	if cfg.Theme == "" {
		cfg.Theme = "dark"
	}
	return cfg
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

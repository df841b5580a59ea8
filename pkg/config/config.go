package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for XDG directory paths
const AppName = "octanecrawler"

// Defaults carried over from the original crawler
const (
	DefaultSeedHost        = "theinfo.org"
	DefaultSeedPath        = "/"
	DefaultLinkDBPath      = "./bot_db/_oct_links.db"
	DefaultStorageDir      = "./octane_bot_store"
	DefaultPolitenessDelay = 6 * time.Second
	DefaultPort            = 80
	DefaultDialTimeout     = 15 * time.Second
	DefaultReadTimeout     = 45 * time.Second
	DefaultReadBufferSize  = 140 * 1024
	DefaultMaxScanBytes    = 8 * 1024 * 1024
	DefaultAccept          = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.81"
	DefaultUserAgent       = "Mozilla/5.0 (compatible; octanebot/1.0; http://code.google.com/p/octane-crawler/)"
)

// SeedConfig names the single page crawled per run
type SeedConfig struct {
	Host string `yaml:"host"`
	Path string `yaml:"path"`
}

// FetchConfig holds settings for the raw socket fetcher
type FetchConfig struct {
	Port           int           `yaml:"port,omitempty"`
	DialTimeout    time.Duration `yaml:"dial_timeout,omitempty"`
	ReadTimeout    time.Duration `yaml:"read_timeout,omitempty"` // Overall deadline for send + receive (0 = none)
	ReadBufferSize int           `yaml:"read_buffer_size,omitempty"`
	UserAgent      string        `yaml:"user_agent,omitempty"`
	Accept         string        `yaml:"accept,omitempty"`
}

// ExtractConfig bounds the link extractor
type ExtractConfig struct {
	MaxScanBytes int `yaml:"max_scan_bytes,omitempty"` // Responses larger than this are not scanned (0 = unlimited)
}

// LedgerConfig controls the badger-backed fetch ledger
type LedgerConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	StateDir string `yaml:"state_dir,omitempty"`
}

// AppConfig holds the global application configuration
type AppConfig struct {
	Seed            SeedConfig    `yaml:"seed"`
	LinkDBPath      string        `yaml:"link_db_path"`
	StorageDir      string        `yaml:"storage_dir"`
	PolitenessDelay time.Duration `yaml:"politeness_delay"`
	Fetch           FetchConfig   `yaml:"fetch,omitempty"`
	Extract         ExtractConfig `yaml:"extract,omitempty"`
	Ledger          LedgerConfig  `yaml:"ledger,omitempty"`
}

// Default returns a configuration with every default applied
func Default() *AppConfig {
	cfg := &AppConfig{
		PolitenessDelay: DefaultPolitenessDelay,
		Fetch:           FetchConfig{ReadTimeout: DefaultReadTimeout},
		Extract:         ExtractConfig{MaxScanBytes: DefaultMaxScanBytes},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path over the defaults, so keys absent from the file keep
// their default value and an explicit zero is preserved. A missing file is not an error.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file '%s': %w", path, err)
	}
	return cfg, nil
}

// DefaultConfigPath returns the config file location under the XDG config directory.
// On Linux: ~/.config/octanecrawler/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// XDGStateDir returns the XDG state directory used for the fetch ledger.
// On Linux: ~/.local/state/octanecrawler
func XDGStateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// LedgerEnabled reports whether fetch attempts should be recorded (default true)
func (c *AppConfig) LedgerEnabled() bool {
	if c.Ledger.Enabled != nil {
		return *c.Ledger.Enabled
	}
	return true
}

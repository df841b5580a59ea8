package config

import (
	"fmt"
	"strings"

	"octane-crawler/pkg/utils"
)

// Validate checks AppConfig fields and applies defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// Seed host
	if c.Seed.Host == "" {
		warnings = append(warnings, fmt.Sprintf("seed.host is empty, defaulting to '%s'", DefaultSeedHost))
		c.Seed.Host = DefaultSeedHost
	}
	if strings.Contains(c.Seed.Host, "://") {
		return warnings, fmt.Errorf("%w: seed.host '%s' must not carry a scheme", utils.ErrConfigValidation, c.Seed.Host)
	}
	if strings.ContainsAny(c.Seed.Host, " \t\r\n/:") {
		return warnings, fmt.Errorf("%w: seed.host '%s' must be a bare hostname", utils.ErrConfigValidation, c.Seed.Host)
	}
	if lower := strings.ToLower(c.Seed.Host); lower != c.Seed.Host {
		warnings = append(warnings, fmt.Sprintf("seed.host '%s' lower-cased to '%s'", c.Seed.Host, lower))
		c.Seed.Host = lower
	}

	// Seed path
	if c.Seed.Path == "" {
		c.Seed.Path = DefaultSeedPath
	} else if c.Seed.Path[0] != '/' {
		warnings = append(warnings, fmt.Sprintf("seed.path '%s' does not start with '/', prefixing it", c.Seed.Path))
		c.Seed.Path = "/" + c.Seed.Path
	}

	// PolitenessDelay
	if c.PolitenessDelay < 0 {
		warnings = append(warnings, "politeness_delay cannot be negative, setting to 0")
		c.PolitenessDelay = 0
	}

	// Extract
	if c.Extract.MaxScanBytes < 0 {
		warnings = append(warnings, "extract.max_scan_bytes cannot be negative, setting to 0 (unlimited)")
		c.Extract.MaxScanBytes = 0
	}

	// Fetch
	if c.Fetch.Port < 0 || c.Fetch.Port > 65535 {
		return warnings, fmt.Errorf("%w: fetch.port %d out of range", utils.ErrConfigValidation, c.Fetch.Port)
	}
	if c.Fetch.ReadTimeout < 0 {
		warnings = append(warnings, "fetch.read_timeout cannot be negative, disabling timeout")
		c.Fetch.ReadTimeout = 0
	}

	c.applyDefaults()
	return warnings, nil
}

// applyDefaults fills zero values. PolitenessDelay, ReadTimeout and MaxScanBytes are
// not touched here: zero is a meaningful setting for each of them.
func (c *AppConfig) applyDefaults() {
	if c.Seed.Host == "" {
		c.Seed.Host = DefaultSeedHost
	}
	if c.Seed.Path == "" {
		c.Seed.Path = DefaultSeedPath
	}
	if c.LinkDBPath == "" {
		c.LinkDBPath = DefaultLinkDBPath
	}
	if c.StorageDir == "" {
		c.StorageDir = DefaultStorageDir
	}
	if c.Ledger.StateDir == "" {
		c.Ledger.StateDir = XDGStateDir()
	}
	c.validateFetchSettings()
}

// validateFetchSettings applies defaults to fetcher settings.
func (c *AppConfig) validateFetchSettings() {
	f := &c.Fetch
	if f.Port == 0 {
		f.Port = DefaultPort
	}
	if f.DialTimeout <= 0 {
		f.DialTimeout = DefaultDialTimeout
	}
	if f.ReadBufferSize <= 0 {
		f.ReadBufferSize = DefaultReadBufferSize
	}
	if f.UserAgent == "" {
		f.UserAgent = DefaultUserAgent
	}
	if f.Accept == "" {
		f.Accept = DefaultAccept
	}
}

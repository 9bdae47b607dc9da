// Package config holds the configuration surface recognized by each
// pipeline component (spec.md §6), as plain structs with defaulting
// constructors rather than a generic config-file loader — config loading
// itself is an external-collaborator concern, out of scope for the core.
package config

import (
	"fmt"
	"time"
)

// PackageName and PackageVersion feed the default User-Agent format,
// "{package_name} - {package_version}".
var (
	PackageName    = "aetherscope"
	PackageVersion = "dev"
)

// DefaultUserAgent returns "{package_name} - {package_version}".
func DefaultUserAgent() string {
	return fmt.Sprintf("%s - %s", PackageName, PackageVersion)
}

// FetcherConfig configures the direct HTTP fetcher (C9). It is embedded by
// HeadlessConfig (C10), which shares the same user-agent/timeout/metrics
// surface.
type FetcherConfig struct {
	UserAgent         string
	ProxyServer       string
	TimeoutSeconds    int
	ObjectStoreName   string
	EnableHTTPMetrics bool
}

// WithDefaults fills zero-valued fields with the component's defaults.
func (c FetcherConfig) WithDefaults() FetcherConfig {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent()
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 20
	}
	if c.ObjectStoreName == "" {
		c.ObjectStoreName = "default"
	}
	return c
}

// Timeout returns TimeoutSeconds as a time.Duration.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HeadlessConfig configures the headless-browser fetcher (C10).
type HeadlessConfig struct {
	FetcherConfig
	BrowserPath        string
	IdleTimeoutSeconds int
}

func (c HeadlessConfig) WithDefaults() HeadlessConfig {
	c.FetcherConfig = c.FetcherConfig.WithDefaults()
	if c.IdleTimeoutSeconds <= 0 {
		c.IdleTimeoutSeconds = 10
	}
	return c
}

// IdleTimeout returns IdleTimeoutSeconds as a time.Duration.
func (c HeadlessConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// BloomConfig is the Unique Filter's probabilistic tier (C6).
type BloomConfig struct {
	Enable       bool
	FPRate       float64
	ExpectedSize uint
}

// HashSetVariant selects the Unique Filter's exact tier backend.
type HashSetVariant int

const (
	HashSetNone HashSetVariant = iota
	HashSetSqlite
	HashSetRedis
)

// HashSetConfig configures the exact-membership tier.
type HashSetConfig struct {
	Variant  HashSetVariant
	Path     string // Sqlite
	URI      string // Redis
}

// UniqueConfig configures the Unique Filter (C6).
type UniqueConfig struct {
	Bloom   BloomConfig
	HashSet HashSetConfig
}

// RobotsConfig configures the Robots Filter (C7).
type RobotsConfig struct {
	HTTPConfig FetcherConfig
}

func (c RobotsConfig) WithDefaults() RobotsConfig {
	if c.HTTPConfig.TimeoutSeconds <= 0 {
		c.HTTPConfig.TimeoutSeconds = 5
	}
	c.HTTPConfig = c.HTTPConfig.WithDefaults()
	return c
}

// TabPoolConfig configures the bounded browser-tab pool (C8).
type TabPoolConfig struct {
	Capacity    int
	UserAgent   string
	BrowserPath string
}

func (c TabPoolConfig) WithDefaults() TabPoolConfig {
	if c.Capacity <= 0 {
		c.Capacity = 16
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent()
	}
	return c
}

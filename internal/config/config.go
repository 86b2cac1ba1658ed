// Package config carries runtime settings for the chtime auth subsystem
// and its CLI, layered as defaults → JSON file → command-line flags.
package config

import (
	"time"

	"github.com/chtime/chtime/internal/cryptox"
	"github.com/chtime/chtime/internal/session"
)

// Config holds the tunable parameters of the subsystem.
//
// Fields:
//   - StorePath: sqlite DSN/path of the persisted key-value store.
//   - SessionTTL: validity window of an issued session.
//   - KDFIterations: PBKDF2 work factor. Must match the factor used for
//     existing credential hashes or stored credentials stop verifying.
type Config struct {
	StorePath     string
	SessionTTL    time.Duration
	KDFIterations int
}

// LoadDefaults populates c with the reference behavior: a local store
// file, 30-day sessions, and the 100k-iteration work factor.
func (c *Config) LoadDefaults() {
	c.StorePath = "chtime.db"
	c.SessionTTL = session.DefaultTTL
	c.KDFIterations = cryptox.DefaultIterations
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

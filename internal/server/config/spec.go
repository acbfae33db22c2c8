// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for stallgate-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server"`
	Storage   StorageSection   `koanf:"storage"`
	Session   SessionSection   `koanf:"session"`
	Payment   PaymentSection   `koanf:"payment"`
	RateLimit RateLimitSection `koanf:"ratelimit"`
	Log       LogSection       `koanf:"log"`
}

// ServerSection configures the two marketplace frontends. Sellers and
// buyers connect to separate listeners served by the same process.
type ServerSection struct {
	Seller HTTPConfig `koanf:"seller"`
	Buyer  HTTPConfig `koanf:"buyer"`
}

// HTTPConfig configures one HTTP listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// StorageSection configures the persistence backend.
type StorageSection struct {
	// Backend selects the store implementation: "memory" or "sqlite".
	Backend string `koanf:"backend"`

	// Path is the SQLite database file. Ignored for the memory backend.
	Path string `koanf:"path"`
}

// SessionSection configures session lifecycle behavior.
type SessionSection struct {
	// IdleTimeout is the sliding inactivity window after which a
	// session expires.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// SweepInterval is how often the background sweeper removes idle
	// sessions. Zero disables the sweeper; expired sessions are still
	// rejected lazily on access.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// PaymentSection configures the stub payment processor.
type PaymentSection struct {
	// ApprovalRate is the probability in [0, 1] that a well-formed
	// card is approved.
	ApprovalRate float64 `koanf:"approval_rate"`
}

// RateLimitSection configures per-client request throttling.
type RateLimitSection struct {
	// RPS is the sustained requests per second allowed per client.
	// Zero disables rate limiting.
	RPS float64 `koanf:"rps"`

	// Burst is the short-term burst allowance per client.
	Burst int `koanf:"burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

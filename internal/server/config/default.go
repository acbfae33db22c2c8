// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultSellerAddr = "127.0.0.1:8081"
	DefaultBuyerAddr  = "127.0.0.1:8082"

	DefaultStorageBackend = "memory"
	DefaultStoragePath    = "stallgate.db"

	DefaultIdleTimeout   = 300 * time.Second
	DefaultSweepInterval = 60 * time.Second

	DefaultApprovalRate = 0.9

	DefaultRateLimitRPS   = 50.0
	DefaultRateLimitBurst = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Seller: HTTPConfig{
				Addr: DefaultSellerAddr,
			},
			Buyer: HTTPConfig{
				Addr: DefaultBuyerAddr,
			},
		},
		Storage: StorageSection{
			Backend: DefaultStorageBackend,
			Path:    DefaultStoragePath,
		},
		Session: SessionSection{
			IdleTimeout:   DefaultIdleTimeout,
			SweepInterval: DefaultSweepInterval,
		},
		Payment: PaymentSection{
			ApprovalRate: DefaultApprovalRate,
		},
		RateLimit: RateLimitSection{
			RPS:   DefaultRateLimitRPS,
			Burst: DefaultRateLimitBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

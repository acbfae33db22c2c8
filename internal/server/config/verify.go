// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
	"path/filepath"
)

// Supported storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySession(&cfg.Session); err != nil {
		return err
	}
	if err := verifyPayment(&cfg.Payment); err != nil {
		return err
	}
	if err := verifyRateLimit(&cfg.RateLimit); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Seller.Addr == "" {
		return errors.New("server.seller.addr is required")
	}
	if cfg.Buyer.Addr == "" {
		return errors.New("server.buyer.addr is required")
	}
	if cfg.Seller.Addr == cfg.Buyer.Addr {
		return errors.New("server.seller.addr and server.buyer.addr must differ")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendSQLite:
		if cfg.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
		// Check the parent directory exists or can be created.
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.New("cannot create storage directory: " + err.Error())
		}
		return nil
	default:
		return errors.New("storage.backend must be \"memory\" or \"sqlite\"")
	}
}

func verifySession(cfg *SessionSection) error {
	if cfg.IdleTimeout <= 0 {
		return errors.New("session.idle_timeout must be positive")
	}
	if cfg.SweepInterval < 0 {
		return errors.New("session.sweep_interval must not be negative")
	}
	return nil
}

func verifyPayment(cfg *PaymentSection) error {
	if cfg.ApprovalRate < 0 || cfg.ApprovalRate > 1 {
		return errors.New("payment.approval_rate must be between 0 and 1")
	}
	return nil
}

func verifyRateLimit(cfg *RateLimitSection) error {
	if cfg.RPS < 0 {
		return errors.New("ratelimit.rps must not be negative")
	}
	if cfg.RPS > 0 && cfg.Burst < 1 {
		return errors.New("ratelimit.burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

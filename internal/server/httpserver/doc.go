// Package httpserver provides the HTTP servers for Stallgate.
//
// This package implements the two marketplace frontends using stdlib
// net/http:
//
//   - Seller frontend: account, catalog management, and rating endpoints
//   - Buyer frontend: account, search, cart, feedback, and purchase endpoints
//   - Shared: /health, /ready, /metrics
//
// Features:
//
//   - Middleware chain: Recover, RequestID, RateLimit, Metrics, SessionAuth
//   - Session-token authentication with touch-on-access
//   - Graceful shutdown with configurable timeout
//   - Prometheus metrics integration
package httpserver

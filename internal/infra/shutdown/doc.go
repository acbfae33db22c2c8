// Package shutdown provides graceful shutdown for Stallgate.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Hooks run in reverse registration order so dependencies registered
// first (stores, for example) close after the servers that use them.
package shutdown

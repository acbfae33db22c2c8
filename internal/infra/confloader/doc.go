// Package confloader provides configuration loading mechanism.
//
// This package implements a flexible configuration loader that supports
// multiple sources using koanf as the underlying library.
//
// Features:
//
//   - Multiple Sources: Files, environment variables, maps
//   - Watch Support: Automatic reload on config file changes
//   - Type Safety: Unmarshaling into typed structs
//
// Priority (highest to lowest):
//
//  1. Command-line flags (loaded as a map by the caller)
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader

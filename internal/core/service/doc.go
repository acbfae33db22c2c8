// Package service provides the domain services for Stallgate.
//
// Each service declares the repository interface it needs; the storage
// backends (memory, sqlite) implement them. Services own the business
// rules (validation, role checks, the lazy session expiry protocol and
// the purchase flow) while repositories own atomicity of their own
// critical sections (id allocation, stock decrement, the feedback pair).
package service

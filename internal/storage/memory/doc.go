// Package memory provides the in-memory storage backend for Stallgate.
//
// Each resource gets its own store built on a sharded concurrent map for
// point access, plus a store-level mutex guarding the sections that must
// update several indexes atomically: account id allocation, per-category
// item id allocation, the stock decrement, and the feedback pair.
//
// Stored values are cloned on the way in and out, so callers can never
// mutate store state through a returned pointer.
package memory

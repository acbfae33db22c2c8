// Package handler provides HTTP request handlers for Stallgate.
//
// This package implements the marketplace API endpoints for accounts,
// sessions, the item catalog, carts, feedback, and purchases. The same
// handler set backs both frontends; the routers in the parent package
// decide which operations each frontend mounts.
package handler

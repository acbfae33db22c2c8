// Package httpserver provides the HTTP servers for Stallgate.
package httpserver

import (
	"net/http"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/server/httpserver/handler"
	"github.com/openstall/stallgate/internal/telemetry/logger"
	"github.com/openstall/stallgate/internal/telemetry/metric"
)

// Frontend labels for routing and metrics.
const (
	FrontendSeller = "seller"
	FrontendBuyer  = "buyer"
)

// RouterConfig holds configuration shared by both frontend routers.
type RouterConfig struct {
	// Handler serves all marketplace operations; each router mounts
	// only the operations its frontend exposes.
	Handler *handler.Handler

	// Sessions backs the auth middleware.
	Sessions *service.SessionService

	// Logger for request logging.
	Logger logger.Logger

	// Metrics records request counts and latency.
	Metrics *metric.Registry

	// RateLimitRPS is the per-client request rate. Zero disables
	// rate limiting.
	RateLimitRPS float64

	// RateLimitBurst is the per-client burst allowance.
	RateLimitBurst int
}

// NewSellerRouter builds the seller frontend: account management,
// catalog management, and rating lookups.
func NewSellerRouter(cfg *RouterConfig) http.Handler {
	mux, open, authed := newFrontend(cfg, FrontendSeller)
	h := cfg.Handler

	mux.Handle("POST /api/accounts", open(h.CreateAccount(domain.RoleSeller)))
	mux.Handle("POST /api/login", open(h.Login(domain.RoleSeller)))
	mux.Handle("POST /api/logout", authed(h.Logout()))

	mux.Handle("POST /api/items", authed(h.RegisterItem()))
	mux.Handle("GET /api/items", authed(h.ListOwnItems()))
	mux.Handle("POST /api/items/{category}/{id}/price", authed(h.ChangePrice()))
	mux.Handle("POST /api/items/{category}/{id}/units", authed(h.ChangeQuantity()))
	mux.Handle("GET /api/rating", authed(h.OwnRating()))
	mux.Handle("GET /api/sellers/{id}/rating", authed(h.SellerRating()))

	return mux
}

// NewBuyerRouter builds the buyer frontend: account management, search,
// carts, feedback, and purchases.
func NewBuyerRouter(cfg *RouterConfig) http.Handler {
	mux, open, authed := newFrontend(cfg, FrontendBuyer)
	h := cfg.Handler

	mux.Handle("POST /api/accounts", open(h.CreateAccount(domain.RoleBuyer)))
	mux.Handle("POST /api/login", open(h.Login(domain.RoleBuyer)))
	mux.Handle("POST /api/logout", authed(h.Logout()))

	mux.Handle("GET /api/items/search", authed(h.SearchItems()))
	mux.Handle("GET /api/items/{category}/{id}", authed(h.GetItem()))
	mux.Handle("POST /api/items/{category}/{id}/feedback", authed(h.ProvideFeedback()))
	mux.Handle("GET /api/sellers/{id}/rating", authed(h.SellerRating()))

	mux.Handle("POST /api/cart/items", authed(h.CheckCartItem()))
	mux.Handle("PUT /api/cart", authed(h.SaveCart()))
	mux.Handle("GET /api/cart", authed(h.GetCart()))
	mux.Handle("DELETE /api/cart", authed(h.ClearCart()))

	mux.Handle("POST /api/purchases", authed(h.MakePurchase()))
	mux.Handle("GET /api/purchases", authed(h.PurchaseHistory()))

	return mux
}

// newFrontend builds the shared mux plus the two middleware chains.
// Login and account creation run the open chain; everything else under
// /api runs the authed chain, which validates and touches the session
// on every call.
func newFrontend(cfg *RouterConfig, frontend string) (mux *http.ServeMux, open, authed func(http.Handler) http.Handler) {
	base := []Middleware{
		Recover(cfg.Logger),
		RequestID(cfg.Logger),
		RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Metrics),
		Metrics(cfg.Metrics, frontend),
	}

	open = func(h http.Handler) http.Handler {
		return Chain(h, base...)
	}
	authed = func(h http.Handler) http.Handler {
		return Chain(h, append(append([]Middleware{}, base...), SessionAuth(cfg.Sessions))...)
	}

	mux = http.NewServeMux()
	mux.Handle("GET /health", Chain(cfg.Handler.Health(), Recover(cfg.Logger), RequestID(cfg.Logger)))
	mux.Handle("GET /ready", Chain(cfg.Handler.Ready(), Recover(cfg.Logger), RequestID(cfg.Logger)))
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	return mux, open, authed
}

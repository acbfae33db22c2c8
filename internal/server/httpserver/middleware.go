// Package httpserver provides the HTTP servers for Stallgate.
package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/server/httpserver/handler"
	"github.com/openstall/stallgate/internal/telemetry/logger"
	"github.com/openstall/stallgate/internal/telemetry/metric"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware in
// the list is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID assigns a ULID to each request and propagates it through
// the context and the X-Request-ID response header.
func RequestID(l logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = ulid.Make().String()
			}

			w.Header().Set("X-Request-ID", requestID)

			ctx := logger.WithLogger(r.Context(), l)
			ctx = logger.WithRequestID(ctx, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recover recovers from handler panics and returns a 500 error.
func Recover(l logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					l.Error("panic recovered",
						"request_id", logger.RequestIDFromContext(r.Context()),
						"error", err,
						"path", r.URL.Path,
					)
					writeMiddlewareError(w, r, http.StatusInternalServerError,
						domain.ErrInternal.Code, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies per-client token-bucket throttling. A zero rate
// disables limiting.
func RateLimit(rps float64, burst int, m *metric.Registry) Middleware {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			mu.Lock()
			limiter, ok := limiters[ip]
			if !ok {
				limiter = rate.NewLimiter(rate.Limit(rps), burst)
				limiters[ip] = limiter
			}
			mu.Unlock()

			if !limiter.Allow() {
				m.RateLimited.Inc()
				w.Header().Set("Retry-After", "1")
				writeMiddlewareError(w, r, http.StatusTooManyRequests,
					domain.ErrRateLimited.Code, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request counts and latency per frontend and route.
func Metrics(m *metric.Registry, frontend string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// The route pattern keeps label cardinality bounded; raw
			// paths would mint a series per item key.
			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}
			m.RequestsTotal.WithLabelValues(frontend, route, strconv.Itoa(wrapped.statusCode)).Inc()
			m.RequestDuration.WithLabelValues(frontend, route).Observe(time.Since(start).Seconds())
		})
	}
}

// SessionAuth validates the X-Session-Token header on every request and
// refreshes the sliding idle window as a side effect. The resolved
// identity is placed in the request context; handlers derive the actor
// from it, never from the payload. Requests without a valid session
// never reach the operation.
func SessionAuth(sessions *service.SessionService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Session-Token")

			session, err := sessions.Validate(r.Context(), token)
			if err != nil {
				code := domain.ErrorCode(err)
				if code == "" {
					code = domain.ErrInternal.Code
				}
				writeMiddlewareError(w, r, handler.ErrorCodeToHTTPStatus(code), code, err.Error())
				return
			}

			ctx := handler.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// writeMiddlewareError writes an envelope error from middleware, before
// a handler is reached.
func writeMiddlewareError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(handler.NewErrorResponse(requestID, code, message))
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// SplitHostPort handles IPv6 addresses like [::1]:8080.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

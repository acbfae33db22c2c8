// Package handler provides HTTP request handlers for Stallgate.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/telemetry/logger"
	"github.com/openstall/stallgate/internal/telemetry/metric"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// sessionKey carries the authenticated session through the request.
const sessionKey contextKey = "stallgate.session"

// ContextWithSession stores the authenticated session in the context.
// The auth middleware calls this after validating the token; handlers
// derive the acting user from it and never from the request payload.
func ContextWithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext retrieves the authenticated session, or nil when
// the request did not pass the auth middleware.
func SessionFromContext(ctx context.Context) *domain.Session {
	if s, ok := ctx.Value(sessionKey).(*domain.Session); ok {
		return s
	}
	return nil
}

// Handler holds the marketplace services behind the HTTP API.
type Handler struct {
	directory *service.DirectoryService
	sessions  *service.SessionService
	catalog   *service.CatalogService
	carts     *service.CartService
	ledger    *service.LedgerService
	logger    logger.Logger
	metrics   *metric.Registry
}

// New creates a new Handler with the given services.
func New(
	directory *service.DirectoryService,
	sessions *service.SessionService,
	catalog *service.CatalogService,
	carts *service.CartService,
	ledger *service.LedgerService,
	l logger.Logger,
	m *metric.Registry,
) *Handler {
	return &Handler{
		directory: directory,
		sessions:  sessions,
		catalog:   catalog,
		carts:     carts,
		ledger:    ledger,
		logger:    l,
		metrics:   m,
	}
}

// writeJSON writes a JSON response with the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// serviceError converts service errors to HTTP responses.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.ErrorCode(err)
		status := ErrorCodeToHTTPStatus(code)
		if status >= 500 {
			logger.L(r.Context()).Error("request failed", "code", code, "error", err)
		}
		h.writeError(w, r, status, code, err.Error())
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error")
}

// decode reads a JSON request body into dst, rejecting malformed input.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "malformed request body")
		return false
	}
	return true
}

// itemKeyFromPath parses the {category}/{id} path segments.
func (h *Handler) itemKeyFromPath(w http.ResponseWriter, r *http.Request) (domain.ItemKey, bool) {
	key, err := domain.ParseItemKey(r.PathValue("category") + "/" + r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return domain.ItemKey{}, false
	}
	return key, true
}

// ErrorCodeToHTTPStatus maps marketplace error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"), strings.HasSuffix(code, "-4091"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4020"):
		return http.StatusPaymentRequired
	case strings.HasSuffix(code, "-4030"), strings.HasSuffix(code, "-4031"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"),
		strings.HasSuffix(code, "-4012"), strings.HasSuffix(code, "-4013"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(code, "SG-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// userResponse converts a domain user to its API shape.
func userResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
	}
}

// itemResponse converts a domain item to its API shape.
func itemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		Category:   item.Key.Category,
		ID:         item.Key.ID,
		SellerID:   item.SellerID,
		Name:       item.Name,
		Keywords:   item.Keywords,
		Condition:  string(item.Condition),
		Price:      item.Price,
		Quantity:   item.Quantity,
		ThumbsUp:   item.ThumbsUp,
		ThumbsDown: item.ThumbsDown,
	}
}

// itemListResponse converts a slice of domain items to its API shape.
func itemListResponse(items []*domain.Item) ItemListResponse {
	out := ItemListResponse{Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		out.Items = append(out.Items, itemResponse(item))
	}
	out.Total = len(out.Items)
	return out
}

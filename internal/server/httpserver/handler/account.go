// Package handler provides HTTP request handlers for Stallgate.
package handler

import (
	"net/http"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/telemetry/logger"
)

// CreateAccount handles POST /api/accounts. The role is fixed by the
// frontend the request arrived on, never taken from the payload.
func (h *Handler) CreateAccount(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAccountRequest
		if !h.decode(w, r, &req) {
			return
		}

		user, err := h.directory.CreateAccount(r.Context(), &service.CreateAccountRequest{
			Username:    req.Username,
			Password:    req.Password,
			DisplayName: req.DisplayName,
			Role:        role,
		})
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		logger.L(r.Context()).Info("account created",
			"user_id", user.ID,
			"role", string(role),
		)
		h.writeJSON(w, r, http.StatusCreated, userResponse(user))
	}
}

// Login handles POST /api/login. Credentials for the other role are
// rejected here; the session's role is settled at login and never
// changes afterwards.
func (h *Handler) Login(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !h.decode(w, r, &req) {
			return
		}

		user, err := h.directory.Authenticate(r.Context(), &service.AuthenticateRequest{
			Username: req.Username,
			Password: req.Password,
			Role:     role,
		})
		if err != nil {
			h.metrics.LoginsTotal.WithLabelValues(string(role), "failure").Inc()
			h.serviceError(w, r, err)
			return
		}

		session, err := h.sessions.Create(r.Context(), user.ID, user.Role)
		if err != nil {
			h.metrics.LoginsTotal.WithLabelValues(string(role), "failure").Inc()
			h.serviceError(w, r, err)
			return
		}

		h.metrics.LoginsTotal.WithLabelValues(string(role), "success").Inc()
		h.metrics.SessionsActive.Inc()
		logger.L(r.Context()).Info("login",
			"user_id", user.ID,
			"role", string(role),
			"session", session.Token,
		)
		h.writeJSON(w, r, http.StatusOK, LoginResponse{
			Token: session.Token,
			User:  userResponse(user),
		})
	}
}

// Logout handles POST /api/logout. The token comes from the session
// header, so logout needs no body.
func (h *Handler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Session-Token")
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			h.serviceError(w, r, err)
			return
		}

		h.metrics.SessionsActive.Dec()
		logger.L(r.Context()).Info("logout", "session", token)
		h.writeJSON(w, r, http.StatusOK, map[string]string{"result": "logged out"})
	}
}

// actor returns the authenticated session, enforcing the role the
// operation requires. Sessions are shared between frontends, so a buyer
// token presented to a seller operation is rejected here.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request, role domain.Role) (*domain.Session, bool) {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		h.serviceError(w, r, domain.ErrSessionMissing)
		return nil, false
	}
	if sess.Role != role {
		h.serviceError(w, r, domain.ErrRoleMismatch)
		return nil, false
	}
	return sess, true
}

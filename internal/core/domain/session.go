// Package domain defines the core domain models for Stallgate.
package domain

import (
	"strings"
	"time"

	"github.com/openstall/stallgate/pkg/token"
)

// Session constraints.
const (
	// SessionTokenPrefix marks session tokens so log redaction can
	// recognize them without decoding.
	SessionTokenPrefix = "sgss-"

	// DefaultIdleWindow is the sliding inactivity window after which a
	// session expires. Every authenticated call resets the window.
	DefaultIdleWindow = 300 * time.Second
)

// Session represents an authenticated identity for a bounded,
// activity-renewed time window.
//
// The token is the session's only credential: opaque, random, and
// unguessable. Expiry is lazy: a session past its idle window is removed
// when next accessed.
type Session struct {
	// Token is the opaque credential presented on every call.
	Token string `json:"token"`

	// UserID identifies the account this session authenticates.
	UserID int64 `json:"user_id"`

	// Role is the account role captured at login.
	Role Role `json:"role"`

	// CreatedAt is the creation timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	// LastActive is the last access timestamp (Unix milliseconds).
	// Updated by every authenticated call, including the validating one.
	LastActive int64 `json:"last_active"`
}

// NewSession creates a session with a freshly generated token.
func NewSession(userID int64, role Role) (*Session, error) {
	tok, err := token.NewWithPrefix(SessionTokenPrefix)
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	now := time.Now().UnixMilli()
	return &Session{
		Token:      tok,
		UserID:     userID,
		Role:       role,
		CreatedAt:  now,
		LastActive: now,
	}, nil
}

// IdleExpired reports whether the session has idled past the window.
func (s *Session) IdleExpired(now time.Time, window time.Duration) bool {
	return now.UnixMilli()-s.LastActive > window.Milliseconds()
}

// Touch resets the sliding window by updating LastActive.
func (s *Session) Touch(now time.Time) {
	s.LastActive = now.UnixMilli()
}

// Clone creates a copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	return &clone
}

// LastActiveTime returns LastActive as time.Time.
func (s *Session) LastActiveTime() time.Time {
	return time.UnixMilli(s.LastActive)
}

// IsValidSessionToken checks whether a string is shaped like a session
// token. It does not prove the token exists, only the registry can.
func IsValidSessionToken(tok string) bool {
	return strings.HasPrefix(tok, SessionTokenPrefix) && len(tok) > len(SessionTokenPrefix)
}

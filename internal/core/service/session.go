package service

import (
	"context"
	"time"

	"github.com/openstall/stallgate/internal/core/domain"
)

// SessionRepository defines the storage interface for session operations.
//
// Repositories store sessions verbatim; the expiry protocol (sliding
// window, lazy deletion) lives in SessionService.
type SessionRepository interface {
	// Put stores a session keyed by its token.
	Put(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by token.
	// Returns ErrSessionInvalid when the token is unknown.
	Get(ctx context.Context, token string) (*domain.Session, error)

	// Touch updates a session's LastActive timestamp.
	Touch(ctx context.Context, token string, lastActive int64) error

	// Delete removes a session by token.
	// Returns ErrSessionInvalid when the token is unknown.
	Delete(ctx context.Context, token string) error

	// DeleteIdleBefore removes every session whose LastActive is older
	// than the threshold (Unix milliseconds) and returns the count.
	DeleteIdleBefore(ctx context.Context, threshold int64) (int, error)
}

// SessionService manages the session registry: opaque tokens mapped to
// authenticated identities with a sliding inactivity window.
type SessionService struct {
	repo       SessionRepository
	idleWindow time.Duration
	now        func() time.Time
}

// NewSessionService creates a new SessionService. A non-positive window
// falls back to the default.
func NewSessionService(repo SessionRepository, idleWindow time.Duration) *SessionService {
	if idleWindow <= 0 {
		idleWindow = domain.DefaultIdleWindow
	}
	return &SessionService{
		repo:       repo,
		idleWindow: idleWindow,
		now:        time.Now,
	}
}

// Create mints a session for an authenticated identity and stores it.
// The returned session carries the plaintext token.
func (s *SessionService) Create(ctx context.Context, userID int64, role domain.Role) (*domain.Session, error) {
	session, err := domain.NewSession(userID, role)
	if err != nil {
		return nil, err
	}
	now := s.now().UnixMilli()
	session.CreatedAt = now
	session.LastActive = now
	if err := s.repo.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate resolves a token to its session, applying lazy expiry: a
// session idle past the window is deleted on this access and reported
// expired; the next access reports it unknown. A valid lookup refreshes
// the sliding window.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionMissing
	}

	session, err := s.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if session.IdleExpired(now, s.idleWindow) {
		// Lazy deletion. A concurrent delete already produced the same
		// outcome, so the error is ignored.
		_ = s.repo.Delete(ctx, token)
		return nil, domain.ErrSessionExpired
	}

	session.Touch(now)
	if err := s.repo.Touch(ctx, token, session.LastActive); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session (logout). Unknown tokens return
// ErrSessionInvalid; the protocol layer decides how to surface that.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrSessionMissing
	}
	return s.repo.Delete(ctx, token)
}

// Sweep removes all sessions idle past the window and returns the count.
// Purely a memory-hygiene aid: correctness never depends on it because
// expiry is enforced lazily on access.
func (s *SessionService) Sweep(ctx context.Context) (int, error) {
	threshold := s.now().Add(-s.idleWindow).UnixMilli()
	return s.repo.DeleteIdleBefore(ctx, threshold)
}

// RunSweeper runs Sweep on the given interval until the context ends.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

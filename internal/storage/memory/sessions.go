package memory

import (
	"context"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/pkg/cmap"
)

// SessionStore provides in-memory session storage keyed by token.
//
// The store holds sessions verbatim; the sliding-window expiry protocol
// is driven by the session service, which deletes lazily on access.
type SessionStore struct {
	sessions *cmap.Map[string, *domain.Session]
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: cmap.New[string, *domain.Session](),
	}
}

// Put stores a session keyed by its token.
func (s *SessionStore) Put(_ context.Context, session *domain.Session) error {
	s.sessions.Set(session.Token, session.Clone())
	return nil
}

// Get retrieves a session by token.
func (s *SessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions.Get(token)
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return session.Clone(), nil
}

// Touch updates a session's LastActive timestamp.
func (s *SessionStore) Touch(_ context.Context, token string, lastActive int64) error {
	updated := s.sessions.Update(token, func(session *domain.Session, ok bool) (*domain.Session, bool) {
		if !ok {
			return nil, false
		}
		clone := session.Clone()
		clone.LastActive = lastActive
		return clone, true
	})
	if !updated {
		return domain.ErrSessionInvalid
	}
	return nil
}

// Delete removes a session by token.
func (s *SessionStore) Delete(_ context.Context, token string) error {
	if _, ok := s.sessions.Pop(token); !ok {
		return domain.ErrSessionInvalid
	}
	return nil
}

// DeleteIdleBefore removes every session whose LastActive is older than
// the threshold and returns the count.
func (s *SessionStore) DeleteIdleBefore(_ context.Context, threshold int64) (int, error) {
	var stale []string
	s.sessions.Range(func(token string, session *domain.Session) bool {
		if session.LastActive < threshold {
			stale = append(stale, token)
		}
		return true
	})

	n := 0
	for _, token := range stale {
		// Re-check under the shard lock: the session may have been
		// touched since the scan.
		deleted := false
		s.sessions.Update(token, func(session *domain.Session, ok bool) (*domain.Session, bool) {
			if !ok {
				return nil, false
			}
			if session.LastActive >= threshold {
				return session, true
			}
			deleted = true
			return nil, false
		})
		if deleted {
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored sessions, expired or not.
func (s *SessionStore) Count() int {
	return s.sessions.Count()
}

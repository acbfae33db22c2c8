package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openstall/stallgate/internal/core/domain"
)

// SessionRepository provides session storage on SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a SQLite-backed session repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Put stores a session keyed by its token, replacing any previous row.
func (r *SessionRepository) Put(ctx context.Context, session *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (token, user_id, role, created_at, last_active)
		 VALUES (?, ?, ?, ?, ?)`,
		session.Token, session.UserID, string(session.Role), session.CreatedAt, session.LastActive,
	)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Get retrieves a session by token.
func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var s domain.Session
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, role, created_at, last_active FROM sessions WHERE token = ?`,
		token,
	).Scan(&s.Token, &s.UserID, &role, &s.CreatedAt, &s.LastActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, domain.ErrStorage.WithCause(err)
	}
	s.Role = domain.Role(role)
	return &s, nil
}

// Touch updates a session's LastActive timestamp.
func (r *SessionRepository) Touch(ctx context.Context, token string, lastActive int64) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_active = ? WHERE token = ?`, lastActive, token)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if n == 0 {
		return domain.ErrSessionInvalid
	}
	return nil
}

// Delete removes a session by token.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if n == 0 {
		return domain.ErrSessionInvalid
	}
	return nil
}

// DeleteIdleBefore removes sessions whose LastActive is older than the
// threshold and returns the count.
func (r *SessionRepository) DeleteIdleBefore(ctx context.Context, threshold int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_active < ?`, threshold)
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}
	return int(n), nil
}

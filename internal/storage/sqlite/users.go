package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openstall/stallgate/internal/core/domain"
)

// UserRepository provides account storage on SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a SQLite-backed account repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. The UNIQUE constraint on username
// enforces uniqueness; a violation maps to ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, display_name, role) VALUES (?, ?, ?, ?)`,
		user.Username, user.Password, user.DisplayName, string(user.Role),
	)
	if err != nil {
		if isConstraintErr(err) {
			return nil, domain.ErrUsernameTaken.WithDetails(user.Username)
		}
		return nil, domain.ErrStorage.WithCause(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	clone := user.Clone()
	clone.ID = id
	return clone, nil
}

// GetByUsername retrieves an account by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, password, display_name, role FROM users WHERE username = ?`,
		username,
	))
}

// GetByID retrieves an account by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, username, password, display_name, role FROM users WHERE id = ?`,
		id,
	))
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.DisplayName, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrStorage.WithCause(err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

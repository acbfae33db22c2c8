package memory

import (
	"context"
	"sync"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/pkg/cmap"
)

// UserStore provides in-memory account storage.
type UserStore struct {
	// Primary index: username -> User
	byName *cmap.Map[string, *domain.User]

	// Secondary index: ID -> username
	byID *cmap.Map[int64, string]

	// Guards id allocation and the two-index insert.
	mu     sync.Mutex
	nextID int64
}

// NewUserStore creates a new in-memory account store.
func NewUserStore() *UserStore {
	return &UserStore{
		byName: cmap.New[string, *domain.User](),
		byID:   cmap.New[int64, string](),
	}
}

// Create stores a new account and assigns its ID. Usernames are unique;
// a duplicate is rejected without consuming an ID.
func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byName.Has(user.Username) {
		return nil, domain.ErrUsernameTaken.WithDetails(user.Username)
	}

	s.nextID++
	clone := user.Clone()
	clone.ID = s.nextID

	s.byName.Set(clone.Username, clone)
	s.byID.Set(clone.ID, clone.Username)

	return clone.Clone(), nil
}

// GetByUsername retrieves an account by username.
func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := s.byName.Get(username)
	if !ok {
		return nil, domain.ErrUserNotFound.WithDetails(username)
	}
	return user.Clone(), nil
}

// GetByID retrieves an account by ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	username, ok := s.byID.Get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.GetByUsername(ctx, username)
}

// Count returns the number of accounts.
func (s *UserStore) Count() int {
	return s.byName.Count()
}

package service

import (
	"context"
	"crypto/subtle"

	"github.com/openstall/stallgate/internal/core/domain"
)

// UserRepository defines the storage interface for account operations.
type UserRepository interface {
	// Create persists a new account and assigns its ID.
	// Returns ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByUsername retrieves an account by its unique username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// DirectoryService manages marketplace accounts.
type DirectoryService struct {
	repo UserRepository
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(repo UserRepository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

// CreateAccountRequest contains parameters for account creation.
type CreateAccountRequest struct {
	Username    string
	Password    string
	DisplayName string
	Role        domain.Role
}

// CreateAccount registers a new seller or buyer account.
func (s *DirectoryService) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*domain.User, error) {
	user := &domain.User{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AuthenticateRequest contains login credentials plus the role of the
// front end the login arrived on.
type AuthenticateRequest struct {
	Username string
	Password string
	Role     domain.Role
}

// Authenticate verifies credentials and the front-end role.
//
// Unknown usernames and wrong passwords produce the same error so the
// response does not reveal which accounts exist. A role mismatch (buyer
// credentials on the seller front end, or vice versa) is rejected here,
// at login time; once a session exists its role is settled.
func (s *DirectoryService) Authenticate(ctx context.Context, req *AuthenticateRequest) (*domain.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrUserNotFound.Code) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		return nil, domain.ErrBadCredentials
	}

	if user.Role != req.Role {
		return nil, domain.ErrRoleMismatch
	}
	return user, nil
}

// GetUser retrieves an account by ID.
func (s *DirectoryService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

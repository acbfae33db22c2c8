package service

import (
	"context"
	"errors"
	"testing"

	"github.com/openstall/stallgate/internal/core/domain"
)

func newTestDirectory() *DirectoryService {
	return NewDirectoryService(newMockUserRepo())
}

func TestCreateAccount(t *testing.T) {
	svc := newTestDirectory()
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, &CreateAccountRequest{
		Username:    "ada",
		Password:    "pw",
		DisplayName: "Ada Stallworth",
		Role:        domain.RoleSeller,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("CreateAccount() assigned no ID")
	}
	if user.Role != domain.RoleSeller {
		t.Fatalf("Role = %q, want seller", user.Role)
	}
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	svc := newTestDirectory()
	ctx := context.Background()

	req := &CreateAccountRequest{
		Username:    "ada",
		Password:    "pw",
		DisplayName: "Ada",
		Role:        domain.RoleSeller,
	}
	if _, err := svc.CreateAccount(ctx, req); err != nil {
		t.Fatalf("first CreateAccount() error = %v", err)
	}
	_, err := svc.CreateAccount(ctx, req)
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("second CreateAccount() = %v, want ErrUsernameTaken", err)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	svc := newTestDirectory()
	_, err := svc.CreateAccount(context.Background(), &CreateAccountRequest{
		Username: "ada",
		Role:     domain.Role("admin"),
	})
	if !errors.Is(err, domain.ErrUserValidation) {
		t.Fatalf("CreateAccount(bad role) = %v, want ErrUserValidation", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestDirectory()
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, &CreateAccountRequest{
		Username:    "bob",
		Password:    "secret",
		DisplayName: "Bob",
		Role:        domain.RoleBuyer,
	})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	user, err := svc.Authenticate(ctx, &AuthenticateRequest{
		Username: "bob",
		Password: "secret",
		Role:     domain.RoleBuyer,
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("Authenticate() ID = %d, want %d", user.ID, created.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := newTestDirectory()
	ctx := context.Background()

	_, _ = svc.CreateAccount(ctx, &CreateAccountRequest{
		Username: "bob", Password: "secret", DisplayName: "Bob", Role: domain.RoleBuyer,
	})

	_, err := svc.Authenticate(ctx, &AuthenticateRequest{
		Username: "bob", Password: "wrong", Role: domain.RoleBuyer,
	})
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("Authenticate(wrong pw) = %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticateUnknownUserSameError(t *testing.T) {
	svc := newTestDirectory()
	_, err := svc.Authenticate(context.Background(), &AuthenticateRequest{
		Username: "ghost", Password: "x", Role: domain.RoleBuyer,
	})
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("Authenticate(unknown user) = %v, want ErrBadCredentials", err)
	}
}

func TestAuthenticateRoleMismatch(t *testing.T) {
	svc := newTestDirectory()
	ctx := context.Background()

	_, _ = svc.CreateAccount(ctx, &CreateAccountRequest{
		Username: "bob", Password: "secret", DisplayName: "Bob", Role: domain.RoleBuyer,
	})

	// Buyer credentials arriving through the seller front end.
	_, err := svc.Authenticate(ctx, &AuthenticateRequest{
		Username: "bob", Password: "secret", Role: domain.RoleSeller,
	})
	if !errors.Is(err, domain.ErrRoleMismatch) {
		t.Fatalf("Authenticate(role mismatch) = %v, want ErrRoleMismatch", err)
	}
}

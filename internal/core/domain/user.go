// Package domain defines the core domain models for Stallgate.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling.
package domain

import "strings"

// Role distinguishes the two account kinds. A session carries the role of
// the account it was created for, and each front end accepts only its own.
type Role string

// Account roles.
const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Valid reports whether the role is one of the known account kinds.
func (r Role) Valid() bool {
	return r == RoleSeller || r == RoleBuyer
}

// User field constraints.
const (
	MaxUsernameLength    = 64
	MaxDisplayNameLength = 128
)

// User represents a marketplace account.
//
// Accounts are immutable after creation; there is no exposed mutation.
type User struct {
	// ID is assigned by the directory on creation and never reused.
	ID int64 `json:"id"`

	// Username is unique across all accounts.
	Username string `json:"username"`

	// Password is an opaque secret compared for equality at login.
	Password string `json:"-"`

	// DisplayName is the human-readable account name.
	DisplayName string `json:"display_name"`

	// Role is the account kind, fixed at creation.
	Role Role `json:"role"`
}

// Validate validates the account fields against constraints.
func (u *User) Validate() error {
	var violations []string

	if u.Username == "" {
		violations = append(violations, "username is required")
	}
	if len(u.Username) > MaxUsernameLength {
		violations = append(violations, "username exceeds 64 characters")
	}
	if u.Password == "" {
		violations = append(violations, "password is required")
	}
	if u.DisplayName == "" {
		violations = append(violations, "display_name is required")
	}
	if len(u.DisplayName) > MaxDisplayNameLength {
		violations = append(violations, "display_name exceeds 128 characters")
	}
	if !u.Role.Valid() {
		violations = append(violations, "role must be seller or buyer")
	}

	if len(violations) > 0 {
		return ErrUserValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a copy of the user.
func (u *User) Clone() *User {
	clone := *u
	return &clone
}

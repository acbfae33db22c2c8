// Package token generates opaque, unguessable tokens.
//
// Tokens are random bytes from crypto/rand, Base64 RawURL encoded so they
// are safe in headers and URLs. A generated token carries no structure a
// client could decode or forge.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// DefaultLength is the default entropy length in bytes.
const DefaultLength = 32

// New generates a token with DefaultLength bytes of entropy.
func New() (string, error) {
	return NewWithLength(DefaultLength)
}

// NewWithLength generates a token with the given entropy length in bytes.
func NewWithLength(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewWithPrefix generates a token and prepends the given prefix.
// Prefixed tokens let log redaction and validation recognize token-shaped
// values without inspecting their contents.
func NewWithPrefix(prefix string) (string, error) {
	t, err := New()
	if err != nil {
		return "", err
	}
	return prefix + t, nil
}

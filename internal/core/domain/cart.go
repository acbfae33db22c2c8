// Package domain defines the core domain models for Stallgate.
package domain

import "strings"

// CartEntry is one pending selection in a buyer's cart.
//
// A cart is the set of entries for one buyer. Saving a cart is a full
// replace of the previous contents, never a merge. Cart quantities are
// wishes, not reservations; stock is only checked and taken at purchase.
type CartEntry struct {
	Key      ItemKey `json:"key"`
	Quantity int64   `json:"quantity"`
}

// Validate validates a single cart entry.
func (e *CartEntry) Validate() error {
	if e.Quantity <= 0 {
		return ErrCartValidation.WithDetails("quantity must be positive")
	}
	return nil
}

// ValidateCart validates a full set of cart entries.
func ValidateCart(entries []CartEntry) error {
	var violations []string
	seen := make(map[ItemKey]bool, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			violations = append(violations, err.Error())
		}
		if seen[e.Key] {
			violations = append(violations, "duplicate entry for item "+e.Key.String())
		}
		seen[e.Key] = true
	}
	if len(violations) > 0 {
		return ErrCartValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

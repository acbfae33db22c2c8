package service

import (
	"context"
	"fmt"

	"github.com/openstall/stallgate/internal/core/domain"
)

// CartRepository defines the storage interface for cart operations.
type CartRepository interface {
	// Save replaces the buyer's cart with the given entries. Saving is
	// a full replace, never a merge; an empty slice clears the cart.
	Save(ctx context.Context, buyerID int64, entries []domain.CartEntry) error

	// Get returns the buyer's cart. A buyer without a saved cart gets
	// an empty slice, not an error.
	Get(ctx context.Context, buyerID int64) ([]domain.CartEntry, error)
}

// CartService manages per-buyer carts.
//
// Cart quantities are wishes, not reservations: nothing here holds
// stock, and availability can change between a check and the purchase.
type CartService struct {
	repo  CartRepository
	items ItemRepository
}

// NewCartService creates a new CartService.
func NewCartService(repo CartRepository, items ItemRepository) *CartService {
	return &CartService{repo: repo, items: items}
}

// Save validates and stores the buyer's cart, replacing any previous
// contents. Entries referencing unknown items are rejected whole.
func (s *CartService) Save(ctx context.Context, buyerID int64, entries []domain.CartEntry) error {
	if err := domain.ValidateCart(entries); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := s.items.Get(ctx, e.Key); err != nil {
			return err
		}
	}
	return s.repo.Save(ctx, buyerID, entries)
}

// Get returns the buyer's cart.
func (s *CartService) Get(ctx context.Context, buyerID int64) ([]domain.CartEntry, error) {
	return s.repo.Get(ctx, buyerID)
}

// Clear empties the buyer's cart.
func (s *CartService) Clear(ctx context.Context, buyerID int64) error {
	return s.repo.Save(ctx, buyerID, nil)
}

// CheckAvailability verifies that an item exists and currently has at
// least the requested units. Advisory only: stock is not reserved, and
// a concurrent purchase may consume it before this buyer checks out.
func (s *CartService) CheckAvailability(ctx context.Context, key domain.ItemKey, quantity int64) (*domain.Item, error) {
	if quantity <= 0 {
		return nil, domain.ErrCartValidation.WithDetails("quantity must be positive")
	}
	item, err := s.items.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if item.Quantity < quantity {
		return nil, domain.ErrInsufficientStock.WithDetails(
			fmt.Sprintf("item %s has %d units, %d requested", key, item.Quantity, quantity),
		)
	}
	return item, nil
}

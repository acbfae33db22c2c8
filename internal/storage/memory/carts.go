package memory

import (
	"context"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/pkg/cmap"
)

// CartStore provides in-memory cart storage keyed by buyer.
type CartStore struct {
	carts *cmap.Map[int64, []domain.CartEntry]
}

// NewCartStore creates a new in-memory cart store.
func NewCartStore() *CartStore {
	return &CartStore{
		carts: cmap.New[int64, []domain.CartEntry](),
	}
}

// Save replaces the buyer's cart with the given entries. An empty or nil
// slice clears it.
func (s *CartStore) Save(_ context.Context, buyerID int64, entries []domain.CartEntry) error {
	if len(entries) == 0 {
		s.carts.Delete(buyerID)
		return nil
	}
	s.carts.Set(buyerID, append([]domain.CartEntry(nil), entries...))
	return nil
}

// Get returns the buyer's cart, empty when nothing was saved.
func (s *CartStore) Get(_ context.Context, buyerID int64) ([]domain.CartEntry, error) {
	entries, _ := s.carts.Get(buyerID)
	return append([]domain.CartEntry{}, entries...), nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/pkg/cmap"
)

// ItemStore provides in-memory catalog storage.
//
// Point lookups go through the sharded map. The store mutex serializes
// every section that must observe or update more than one structure
// atomically: id allocation on create, the stock decrement, and the
// feedback pair (item counters plus seller aggregate).
type ItemStore struct {
	// Primary index: ItemKey -> Item
	items *cmap.Map[domain.ItemKey, *domain.Item]

	// Guards counters, ratings, and read-check-write sections on items.
	mu sync.Mutex

	// Per-category id counters. Monotonic, never reused.
	counters map[int64]int64

	// Seller aggregates, created with the seller's first item.
	ratings map[int64]*domain.SellerRating
}

// NewItemStore creates a new in-memory catalog store.
func NewItemStore() *ItemStore {
	return &ItemStore{
		items:    cmap.New[domain.ItemKey, *domain.Item](),
		counters: make(map[int64]int64),
		ratings:  make(map[int64]*domain.SellerRating),
	}
}

// Create stores a new item under the next id in its category and
// ensures the seller has a rating row.
func (s *ItemStore) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[item.Key.Category]++
	clone := item.Clone()
	clone.Key.ID = s.counters[item.Key.Category]

	s.items.Set(clone.Key, clone)
	if _, ok := s.ratings[clone.SellerID]; !ok {
		s.ratings[clone.SellerID] = &domain.SellerRating{SellerID: clone.SellerID}
	}
	return clone.Clone(), nil
}

// Get retrieves an item by key.
func (s *ItemStore) Get(_ context.Context, key domain.ItemKey) (*domain.Item, error) {
	item, ok := s.items.Get(key)
	if !ok {
		return nil, domain.ErrItemNotFound.WithDetails(key.String())
	}
	return item.Clone(), nil
}

// SetPrice overwrites an item's price.
func (s *ItemStore) SetPrice(_ context.Context, key domain.ItemKey, price float64) error {
	return s.replace(key, func(item *domain.Item) {
		item.Price = price
	})
}

// SetQuantity overwrites an item's quantity.
func (s *ItemStore) SetQuantity(_ context.Context, key domain.ItemKey, quantity int64) error {
	return s.replace(key, func(item *domain.Item) {
		item.Quantity = quantity
	})
}

// replace swaps in a mutated clone so concurrent readers holding the old
// pointer keep a consistent snapshot. It takes the store mutex so seller
// overwrites serialize with TakeStock and RecordFeedback.
func (s *ItemStore) replace(key domain.ItemKey, mutate func(*domain.Item)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := s.items.Update(key, func(item *domain.Item, ok bool) (*domain.Item, bool) {
		if !ok {
			return nil, false
		}
		clone := item.Clone()
		mutate(clone)
		return clone, true
	})
	if !found {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	return nil
}

// Search returns in-stock items matching the filter, ordered by key.
func (s *ItemStore) Search(_ context.Context, filter *service.ItemFilter) ([]*domain.Item, error) {
	var result []*domain.Item
	s.items.Range(func(_ domain.ItemKey, item *domain.Item) bool {
		if item.Quantity == 0 {
			return true
		}
		if filter.Category != nil && item.Key.Category != *filter.Category {
			return true
		}
		if filter.SellerID != nil && item.SellerID != *filter.SellerID {
			return true
		}
		if len(filter.Keywords) > 0 && !item.MatchesAnyKeyword(filter.Keywords) {
			return true
		}
		result = append(result, item.Clone())
		return true
	})
	sortItems(result)
	return result, nil
}

// ListBySeller returns every item a seller has registered, ordered by
// key, including sold-out ones.
func (s *ItemStore) ListBySeller(_ context.Context, sellerID int64) ([]*domain.Item, error) {
	var result []*domain.Item
	s.items.Range(func(_ domain.ItemKey, item *domain.Item) bool {
		if item.SellerID == sellerID {
			result = append(result, item.Clone())
		}
		return true
	})
	sortItems(result)
	return result, nil
}

// TakeStock atomically checks and decrements an item's quantity. The
// read, the check, and the write happen under the store mutex, so
// concurrent takers serialize and the quantity can never go negative.
func (s *ItemStore) TakeStock(_ context.Context, key domain.ItemKey, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items.Get(key)
	if !ok {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	if item.Quantity < quantity {
		return domain.ErrInsufficientStock.WithDetails(
			fmt.Sprintf("item %s has %d units, %d requested", key, item.Quantity, quantity),
		)
	}

	clone := item.Clone()
	clone.Quantity -= quantity
	s.items.Set(key, clone)
	return nil
}

// RecordFeedback applies one vote to the item's counters and the owning
// seller's aggregate under the same lock, so the pair always moves
// together.
func (s *ItemStore) RecordFeedback(_ context.Context, key domain.ItemKey, kind domain.FeedbackKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items.Get(key)
	if !ok {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}

	rating, ok := s.ratings[item.SellerID]
	if !ok {
		rating = &domain.SellerRating{SellerID: item.SellerID}
		s.ratings[item.SellerID] = rating
	}

	clone := item.Clone()
	switch kind {
	case domain.FeedbackUp:
		clone.ThumbsUp++
		rating.ThumbsUp++
	case domain.FeedbackDown:
		clone.ThumbsDown++
		rating.ThumbsDown++
	}
	s.items.Set(key, clone)
	return nil
}

// SellerRating returns a seller's aggregate, zero-valued when the seller
// has no feedback yet.
func (s *ItemStore) SellerRating(_ context.Context, sellerID int64) (*domain.SellerRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rating, ok := s.ratings[sellerID]
	if !ok {
		return &domain.SellerRating{SellerID: sellerID}, nil
	}
	clone := *rating
	return &clone, nil
}

func sortItems(items []*domain.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Key.Category != items[j].Key.Category {
			return items[i].Key.Category < items[j].Key.Category
		}
		return items[i].Key.ID < items[j].Key.ID
	})
}

package memory

import (
	"context"
	"sync"

	"github.com/openstall/stallgate/internal/core/domain"
)

// PurchaseStore provides the in-memory append-only purchase ledger.
//
// The ledger is a plain slice under a mutex: appends dominate, reads
// scan, and order matters, so a sharded map buys nothing here.
type PurchaseStore struct {
	mu        sync.RWMutex
	purchases []*domain.Purchase
	nextID    int64
}

// NewPurchaseStore creates a new in-memory ledger.
func NewPurchaseStore() *PurchaseStore {
	return &PurchaseStore{}
}

// Append records a purchase under the next monotonic ledger id.
func (s *PurchaseStore) Append(_ context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	clone := *purchase
	clone.ID = s.nextID
	s.purchases = append(s.purchases, &clone)

	copied := clone
	return &copied, nil
}

// ListByBuyer returns a buyer's purchases, oldest first.
func (s *PurchaseStore) ListByBuyer(_ context.Context, buyerID int64) ([]*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Purchase, 0)
	for _, p := range s.purchases {
		if p.BuyerID == buyerID {
			clone := *p
			result = append(result, &clone)
		}
	}
	return result, nil
}

// Count returns the total number of ledger entries.
func (s *PurchaseStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.purchases)
}

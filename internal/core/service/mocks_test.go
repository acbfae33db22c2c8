package service

import (
	"context"
	"sync"

	"github.com/openstall/stallgate/internal/core/domain"
)

// mockUserRepo is an in-memory UserRepository for testing.
type mockUserRepo struct {
	mu     sync.Mutex
	byName map[string]*domain.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byName: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[user.Username]; exists {
		return nil, domain.ErrUsernameTaken.WithDetails(user.Username)
	}
	m.nextID++
	clone := user.Clone()
	clone.ID = m.nextID
	m.byName[clone.Username] = clone
	return clone.Clone(), nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound.WithDetails(username)
	}
	return u.Clone(), nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// mockSessionRepo is an in-memory SessionRepository for testing.
type mockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionRepo) Put(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session.Clone()
	return nil
}

func (m *mockSessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return s.Clone(), nil
}

func (m *mockSessionRepo) Touch(ctx context.Context, token string, lastActive int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return domain.ErrSessionInvalid
	}
	s.LastActive = lastActive
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return domain.ErrSessionInvalid
	}
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepo) DeleteIdleBefore(ctx context.Context, threshold int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for token, s := range m.sessions {
		if s.LastActive < threshold {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

// mockItemRepo is an in-memory ItemRepository for testing.
type mockItemRepo struct {
	mu       sync.Mutex
	items    map[domain.ItemKey]*domain.Item
	counters map[int64]int64
	ratings  map[int64]*domain.SellerRating
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{
		items:    make(map[domain.ItemKey]*domain.Item),
		counters: make(map[int64]int64),
		ratings:  make(map[int64]*domain.SellerRating),
	}
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[item.Key.Category]++
	clone := item.Clone()
	clone.Key.ID = m.counters[item.Key.Category]
	m.items[clone.Key] = clone
	if _, ok := m.ratings[clone.SellerID]; !ok {
		m.ratings[clone.SellerID] = &domain.SellerRating{SellerID: clone.SellerID}
	}
	return clone.Clone(), nil
}

func (m *mockItemRepo) Get(ctx context.Context, key domain.ItemKey) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, domain.ErrItemNotFound.WithDetails(key.String())
	}
	return item.Clone(), nil
}

func (m *mockItemRepo) SetPrice(ctx context.Context, key domain.ItemKey, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	item.Price = price
	return nil
}

func (m *mockItemRepo) SetQuantity(ctx context.Context, key domain.ItemKey, quantity int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	item.Quantity = quantity
	return nil
}

func (m *mockItemRepo) Search(ctx context.Context, filter *ItemFilter) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Item
	for _, item := range m.items {
		if item.Quantity == 0 {
			continue
		}
		if filter.Category != nil && item.Key.Category != *filter.Category {
			continue
		}
		if len(filter.Keywords) > 0 && !item.MatchesAnyKeyword(filter.Keywords) {
			continue
		}
		result = append(result, item.Clone())
	}
	return result, nil
}

func (m *mockItemRepo) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Item
	for _, item := range m.items {
		if item.SellerID == sellerID {
			result = append(result, item.Clone())
		}
	}
	return result, nil
}

func (m *mockItemRepo) TakeStock(ctx context.Context, key domain.ItemKey, quantity int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	if item.Quantity < quantity {
		return domain.ErrInsufficientStock
	}
	item.Quantity -= quantity
	return nil
}

func (m *mockItemRepo) RecordFeedback(ctx context.Context, key domain.ItemKey, kind domain.FeedbackKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	rating := m.ratings[item.SellerID]
	if kind == domain.FeedbackUp {
		item.ThumbsUp++
		rating.ThumbsUp++
	} else {
		item.ThumbsDown++
		rating.ThumbsDown++
	}
	return nil
}

func (m *mockItemRepo) SellerRating(ctx context.Context, sellerID int64) (*domain.SellerRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rating, ok := m.ratings[sellerID]
	if !ok {
		return &domain.SellerRating{SellerID: sellerID}, nil
	}
	clone := *rating
	return &clone, nil
}

// mockCartRepo is an in-memory CartRepository for testing.
type mockCartRepo struct {
	mu    sync.Mutex
	carts map[int64][]domain.CartEntry
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[int64][]domain.CartEntry)}
}

func (m *mockCartRepo) Save(ctx context.Context, buyerID int64, entries []domain.CartEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[buyerID] = append([]domain.CartEntry(nil), entries...)
	return nil
}

func (m *mockCartRepo) Get(ctx context.Context, buyerID int64) ([]domain.CartEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartEntry{}, m.carts[buyerID]...), nil
}

// mockPurchaseRepo is an in-memory PurchaseRepository for testing.
type mockPurchaseRepo struct {
	mu        sync.Mutex
	purchases []*domain.Purchase
	nextID    int64
}

func newMockPurchaseRepo() *mockPurchaseRepo {
	return &mockPurchaseRepo{}
}

func (m *mockPurchaseRepo) Append(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	clone := *purchase
	clone.ID = m.nextID
	m.purchases = append(m.purchases, &clone)
	copied := clone
	return &copied, nil
}

func (m *mockPurchaseRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]*domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Purchase
	for _, p := range m.purchases {
		if p.BuyerID == buyerID {
			clone := *p
			result = append(result, &clone)
		}
	}
	return result, nil
}

package service

import (
	"context"

	"github.com/openstall/stallgate/internal/core/domain"
)

// ItemFilter defines filter criteria for catalog searches.
type ItemFilter struct {
	Category *int64   // nil matches every category
	Keywords []string // OR semantics, case-insensitive; empty matches all
	SellerID *int64   // nil matches every seller
}

// ItemRepository defines the storage interface for catalog operations.
type ItemRepository interface {
	// Create persists a new item, allocating the next id within its
	// category and ensuring the seller has a rating row. Category ids
	// are monotonic and never reused, even after items sell out.
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)

	// Get retrieves an item by key.
	// Returns ErrItemNotFound when the key is unknown.
	Get(ctx context.Context, key domain.ItemKey) (*domain.Item, error)

	// SetPrice overwrites an item's price.
	SetPrice(ctx context.Context, key domain.ItemKey, price float64) error

	// SetQuantity overwrites an item's quantity. This is the seller's
	// unconditional restock/withdraw path, distinct from TakeStock.
	SetQuantity(ctx context.Context, key domain.ItemKey, quantity int64) error

	// Search returns items matching the filter. Sold-out items
	// (quantity zero) are never returned.
	Search(ctx context.Context, filter *ItemFilter) ([]*domain.Item, error)

	// ListBySeller returns every item a seller has registered,
	// including sold-out ones.
	ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Item, error)

	// TakeStock atomically checks and decrements an item's quantity.
	// This is the only path that may reduce stock on behalf of a
	// purchase: the check and the write are one critical section, so
	// concurrent purchasers can never drive quantity negative.
	// Returns ErrInsufficientStock when fewer units remain than asked.
	TakeStock(ctx context.Context, key domain.ItemKey, quantity int64) error

	// RecordFeedback applies one vote to the item's counters and the
	// owning seller's aggregate as a single atomic pair.
	RecordFeedback(ctx context.Context, key domain.ItemKey, kind domain.FeedbackKind) error

	// SellerRating returns a seller's aggregate. A seller without
	// feedback yields a zero-valued rating, not an error.
	SellerRating(ctx context.Context, sellerID int64) (*domain.SellerRating, error)
}

// CatalogService manages the item catalog.
type CatalogService struct {
	repo ItemRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo ItemRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// RegisterItemRequest contains parameters for listing an item for sale.
type RegisterItemRequest struct {
	SellerID  int64
	Category  int64
	Name      string
	Keywords  []string
	Condition domain.Condition
	Price     float64
	Quantity  int64
}

// Register lists a new item for sale under the seller's account.
func (s *CatalogService) Register(ctx context.Context, req *RegisterItemRequest) (*domain.Item, error) {
	item := &domain.Item{
		Key:       domain.ItemKey{Category: req.Category},
		SellerID:  req.SellerID,
		Name:      req.Name,
		Keywords:  req.Keywords,
		Condition: req.Condition,
		Price:     req.Price,
		Quantity:  req.Quantity,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if req.Category <= 0 {
		return nil, domain.ErrItemValidation.WithDetails("category must be positive")
	}
	return s.repo.Create(ctx, item)
}

// Get retrieves an item by key.
func (s *CatalogService) Get(ctx context.Context, key domain.ItemKey) (*domain.Item, error) {
	return s.repo.Get(ctx, key)
}

// SetPrice changes the sale price of an item the seller owns.
func (s *CatalogService) SetPrice(ctx context.Context, sellerID int64, key domain.ItemKey, price float64) (*domain.Item, error) {
	if price < 0 {
		return nil, domain.ErrItemValidation.WithDetails("price must not be negative")
	}
	if err := s.requireOwner(ctx, sellerID, key); err != nil {
		return nil, err
	}
	if err := s.repo.SetPrice(ctx, key, price); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// SetQuantity overwrites the units for sale of an item the seller owns.
// Setting zero withdraws the item from search without deleting it, so
// its key and feedback history survive.
func (s *CatalogService) SetQuantity(ctx context.Context, sellerID int64, key domain.ItemKey, quantity int64) (*domain.Item, error) {
	if quantity < 0 {
		return nil, domain.ErrItemValidation.WithDetails("quantity must not be negative")
	}
	if err := s.requireOwner(ctx, sellerID, key); err != nil {
		return nil, err
	}
	if err := s.repo.SetQuantity(ctx, key, quantity); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// SearchRequest contains parameters for catalog search.
type SearchRequest struct {
	Category *int64
	Keywords []string
}

// Search returns in-stock items in the category matching any of the
// query keywords.
func (s *CatalogService) Search(ctx context.Context, req *SearchRequest) ([]*domain.Item, error) {
	if len(req.Keywords) > domain.MaxKeywords {
		return nil, domain.ErrItemValidation.WithDetails("at most 5 search keywords allowed")
	}
	return s.repo.Search(ctx, &ItemFilter{
		Category: req.Category,
		Keywords: req.Keywords,
	})
}

// ListBySeller returns every item the seller has registered.
func (s *CatalogService) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Item, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// ListActiveBySeller returns the seller's items that still have stock.
func (s *CatalogService) ListActiveBySeller(ctx context.Context, sellerID int64) ([]*domain.Item, error) {
	items, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	active := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			active = append(active, item)
		}
	}
	return active, nil
}

// RecordFeedback applies a thumbs-up or thumbs-down vote. The item's
// counter and the seller's aggregate move together or not at all.
func (s *CatalogService) RecordFeedback(ctx context.Context, key domain.ItemKey, kind domain.FeedbackKind) error {
	if !kind.Valid() {
		return domain.ErrBadRequest.WithDetails("feedback must be up or down")
	}
	return s.repo.RecordFeedback(ctx, key, kind)
}

// SellerRating returns the seller's aggregate feedback.
func (s *CatalogService) SellerRating(ctx context.Context, sellerID int64) (*domain.SellerRating, error) {
	return s.repo.SellerRating(ctx, sellerID)
}

func (s *CatalogService) requireOwner(ctx context.Context, sellerID int64, key domain.ItemKey) error {
	item, err := s.repo.Get(ctx, key)
	if err != nil {
		return err
	}
	if item.SellerID != sellerID {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	return nil
}

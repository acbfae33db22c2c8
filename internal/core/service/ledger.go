package service

import (
	"context"
	"time"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/payment"
)

// PurchaseRepository defines the storage interface for the purchase
// ledger.
type PurchaseRepository interface {
	// Append records a completed purchase, assigning the next ledger
	// ID. The ledger is append-only.
	Append(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)

	// ListByBuyer returns a buyer's purchases, oldest first.
	ListByBuyer(ctx context.Context, buyerID int64) ([]*domain.Purchase, error)
}

// LedgerService executes purchases and serves purchase history.
type LedgerService struct {
	repo     PurchaseRepository
	items    ItemRepository
	approver payment.Approver
	now      func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repo PurchaseRepository, items ItemRepository, approver payment.Approver) *LedgerService {
	return &LedgerService{
		repo:     repo,
		items:    items,
		approver: approver,
		now:      time.Now,
	}
}

// PurchaseRequest contains parameters for a purchase.
type PurchaseRequest struct {
	BuyerID  int64
	Key      domain.ItemKey
	Quantity int64
	Card     domain.PaymentCard
}

// Purchase runs the buy flow: price the order, clear payment, take
// stock, append to the ledger.
//
// TakeStock is the sole stock-decrement critical section; when the
// request asks for more units than remain, it fails with no partial
// decrement. Steps after an earlier side effect are not compensated: a
// stock failure after payment approval, or a ledger failure after the
// decrement, surfaces as an error without undoing the earlier step.
func (s *LedgerService) Purchase(ctx context.Context, req *PurchaseRequest) (*domain.Purchase, error) {
	if req.Quantity <= 0 {
		return nil, domain.ErrPurchaseValidation.WithDetails("quantity must be positive")
	}

	item, err := s.items.Get(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	amount := item.Price * float64(req.Quantity)

	if err := s.approver.Approve(ctx, req.Card, amount); err != nil {
		return nil, err
	}

	if err := s.items.TakeStock(ctx, req.Key, req.Quantity); err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		BuyerID:   req.BuyerID,
		Key:       req.Key,
		Quantity:  req.Quantity,
		CreatedAt: s.now().UnixMilli(),
	}
	return s.repo.Append(ctx, purchase)
}

// HistoryFor returns the buyer's purchase history, oldest first.
func (s *LedgerService) HistoryFor(ctx context.Context, buyerID int64) ([]*domain.Purchase, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

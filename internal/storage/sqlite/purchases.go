package sqlite

import (
	"context"
	"database/sql"

	"github.com/openstall/stallgate/internal/core/domain"
)

// PurchaseRepository provides the append-only ledger on SQLite.
type PurchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a SQLite-backed purchase ledger.
func NewPurchaseRepository(db *sql.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Append records a purchase; AUTOINCREMENT keeps ledger ids monotonic
// and never reused.
func (r *PurchaseRepository) Append(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases (buyer_id, category, item_id, quantity, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		purchase.BuyerID, purchase.Key.Category, purchase.Key.ID,
		purchase.Quantity, purchase.CreatedAt,
	)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	clone := *purchase
	clone.ID = id
	return &clone, nil
}

// ListByBuyer returns a buyer's purchases, oldest first.
func (r *PurchaseRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]*domain.Purchase, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_id, category, item_id, quantity, created_at
		 FROM purchases WHERE buyer_id = ? ORDER BY id`,
		buyerID,
	)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	purchases := make([]*domain.Purchase, 0)
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.BuyerID, &p.Key.Category, &p.Key.ID, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, domain.ErrStorage.WithCause(err)
		}
		purchases = append(purchases, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	return purchases, nil
}

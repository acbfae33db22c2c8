package sqlite

import (
	"context"
	"database/sql"

	"github.com/openstall/stallgate/internal/core/domain"
)

// CartRepository provides cart storage on SQLite.
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a SQLite-backed cart repository.
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Save replaces the buyer's cart: delete-then-insert in one
// transaction, so readers never observe a half-replaced cart.
func (r *CartRepository) Save(ctx context.Context, buyerID int64, entries []domain.CartEntry) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE buyer_id = ?`, buyerID); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO carts (buyer_id, category, item_id, quantity) VALUES (?, ?, ?, ?)`,
			buyerID, e.Key.Category, e.Key.ID, e.Quantity,
		); err != nil {
			return domain.ErrStorage.WithCause(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Get returns the buyer's cart, empty when nothing was saved.
func (r *CartRepository) Get(ctx context.Context, buyerID int64) ([]domain.CartEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, item_id, quantity FROM carts WHERE buyer_id = ? ORDER BY category, item_id`,
		buyerID,
	)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	entries := make([]domain.CartEntry, 0)
	for rows.Next() {
		var e domain.CartEntry
		if err := rows.Scan(&e.Key.Category, &e.Key.ID, &e.Quantity); err != nil {
			return nil, domain.ErrStorage.WithCause(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	return entries, nil
}

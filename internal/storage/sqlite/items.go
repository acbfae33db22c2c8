package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
)

// ItemRepository provides catalog storage on SQLite.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a SQLite-backed catalog repository.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `category, item_id, seller_id, name, keywords, condition, price, quantity, thumbs_up, thumbs_down`

// Create inserts a new item under the next id in its category. The
// counter bump, the insert, and the seller rating row live in one
// transaction, so ids stay gapless per category and are never reused.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO item_counters (category, next_id) VALUES (?, 1)
		 ON CONFLICT(category) DO UPDATE SET next_id = next_id + 1`,
		item.Key.Category,
	); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT next_id FROM item_counters WHERE category = ?`, item.Key.Category,
	).Scan(&id); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	keywords, err := json.Marshal(item.Keywords)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0)`,
		item.Key.Category, id, item.SellerID, item.Name, string(keywords),
		string(item.Condition), item.Price, item.Quantity,
	); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO seller_feedback (seller_id) VALUES (?)`, item.SellerID,
	); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	clone := item.Clone()
	clone.Key.ID = id
	return clone, nil
}

// Get retrieves an item by key.
func (r *ItemRepository) Get(ctx context.Context, key domain.ItemKey) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE category = ? AND item_id = ?`,
		key.Category, key.ID,
	)
	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound.WithDetails(key.String())
		}
		return nil, err
	}
	return item, nil
}

// SetPrice overwrites an item's price.
func (r *ItemRepository) SetPrice(ctx context.Context, key domain.ItemKey, price float64) error {
	return r.update(ctx, key, `UPDATE items SET price = ? WHERE category = ? AND item_id = ?`, price)
}

// SetQuantity overwrites an item's quantity.
func (r *ItemRepository) SetQuantity(ctx context.Context, key domain.ItemKey, quantity int64) error {
	return r.update(ctx, key, `UPDATE items SET quantity = ? WHERE category = ? AND item_id = ?`, quantity)
}

func (r *ItemRepository) update(ctx context.Context, key domain.ItemKey, query string, value any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, value, key.Category, key.ID)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if n == 0 {
		return domain.ErrItemNotFound.WithDetails(key.String())
	}
	return nil
}

// Search returns in-stock items matching the filter, ordered by key.
// Category and seller narrow the SQL; keyword matching happens on the
// decoded rows, since keywords are stored as a JSON list.
func (r *ItemRepository) Search(ctx context.Context, filter *service.ItemFilter) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	query := `SELECT ` + itemColumns + ` FROM items WHERE quantity > 0`
	var args []any
	if filter.Category != nil {
		query += ` AND category = ?`
		args = append(args, *filter.Category)
	}
	if filter.SellerID != nil {
		query += ` AND seller_id = ?`
		args = append(args, *filter.SellerID)
	}
	query += ` ORDER BY category, item_id`

	items, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(filter.Keywords) == 0 {
		return items, nil
	}

	matched := items[:0]
	for _, item := range items {
		if item.MatchesAnyKeyword(filter.Keywords) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// ListBySeller returns every item a seller has registered, ordered by
// key, including sold-out ones.
func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	return r.list(ctx,
		`SELECT `+itemColumns+` FROM items WHERE seller_id = ? ORDER BY category, item_id`,
		sellerID,
	)
}

// TakeStock decrements an item's quantity with a conditional UPDATE, so
// the check and the write are one statement and concurrent takers can
// never drive the quantity negative.
func (r *ItemRepository) TakeStock(ctx context.Context, key domain.ItemKey, quantity int64) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET quantity = quantity - ?
		 WHERE category = ? AND item_id = ? AND quantity >= ?`,
		quantity, key.Category, key.ID, quantity,
	)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either the item is unknown or the stock is short.
	item, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	return domain.ErrInsufficientStock.WithDetails(
		fmt.Sprintf("item %s has %d units, %d requested", key, item.Quantity, quantity),
	)
}

// RecordFeedback applies one vote to the item's counters and the owning
// seller's aggregate inside a transaction.
func (r *ItemRepository) RecordFeedback(ctx context.Context, key domain.ItemKey, kind domain.FeedbackKind) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	column := "thumbs_up"
	if kind == domain.FeedbackDown {
		column = "thumbs_down"
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	defer tx.Rollback()

	var sellerID int64
	err = tx.QueryRowContext(ctx,
		`SELECT seller_id FROM items WHERE category = ? AND item_id = ?`,
		key.Category, key.ID,
	).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrItemNotFound.WithDetails(key.String())
		}
		return domain.ErrStorage.WithCause(err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET `+column+` = `+column+` + 1 WHERE category = ? AND item_id = ?`,
		key.Category, key.ID,
	); err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO seller_feedback (seller_id, `+column+`) VALUES (?, 1)
		 ON CONFLICT(seller_id) DO UPDATE SET `+column+` = `+column+` + 1`,
		sellerID,
	); err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// SellerRating returns a seller's aggregate, zero-valued when the seller
// has no row yet.
func (r *ItemRepository) SellerRating(ctx context.Context, sellerID int64) (*domain.SellerRating, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	rating := &domain.SellerRating{SellerID: sellerID}
	err := r.db.QueryRowContext(ctx,
		`SELECT thumbs_up, thumbs_down FROM seller_feedback WHERE seller_id = ?`,
		sellerID,
	).Scan(&rating.ThumbsUp, &rating.ThumbsDown)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStorage.WithCause(err)
	}
	return rating, nil
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	return items, nil
}

func scanItem(scan func(dest ...any) error) (*domain.Item, error) {
	var item domain.Item
	var keywords, condition string
	err := scan(
		&item.Key.Category, &item.Key.ID, &item.SellerID, &item.Name,
		&keywords, &condition, &item.Price, &item.Quantity,
		&item.ThumbsUp, &item.ThumbsDown,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, domain.ErrStorage.WithCause(err)
	}
	item.Condition = domain.Condition(condition)
	if keywords != "" && keywords != "null" {
		if err := json.Unmarshal([]byte(keywords), &item.Keywords); err != nil {
			return nil, domain.ErrStorage.WithCause(
				fmt.Errorf("decode keywords for %s: %w", item.Key, err))
		}
	}
	item.Keywords = trimKeywords(item.Keywords)
	return &item, nil
}

func trimKeywords(keywords []string) []string {
	out := keywords[:0]
	for _, kw := range keywords {
		if strings.TrimSpace(kw) != "" {
			out = append(out, kw)
		}
	}
	return out
}

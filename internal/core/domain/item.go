// Package domain defines the core domain models for Stallgate.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition describes an item's physical state.
type Condition string

// Item conditions.
const (
	ConditionNew  Condition = "New"
	ConditionUsed Condition = "Used"
)

// Valid reports whether the condition is a known value.
func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// Item constraints.
const (
	MaxKeywords      = 5
	MaxItemName      = 256
	MaxKeywordLength = 64
)

// ItemKey is the composite identity of a catalog entry: a category and a
// sequence number allocated monotonically within that category. Keys are
// never reused.
type ItemKey struct {
	Category int64 `json:"category"`
	ID       int64 `json:"id"`
}

// String renders the key as "category/id".
func (k ItemKey) String() string {
	return fmt.Sprintf("%d/%d", k.Category, k.ID)
}

// IsZero reports whether the key is unset.
func (k ItemKey) IsZero() bool {
	return k.Category == 0 && k.ID == 0
}

// ParseItemKey parses a "category/id" string into an ItemKey.
func ParseItemKey(s string) (ItemKey, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return ItemKey{}, ErrBadItemKey.WithDetails(s)
	}
	cat, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ItemKey{}, ErrBadItemKey.WithDetails(s)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ItemKey{}, ErrBadItemKey.WithDetails(s)
	}
	return ItemKey{Category: cat, ID: id}, nil
}

// Item represents a catalog entry offered by a seller.
type Item struct {
	Key        ItemKey   `json:"key"`
	SellerID   int64     `json:"seller_id"`
	Name       string    `json:"name"`
	Keywords   []string  `json:"keywords"`
	Condition  Condition `json:"condition"`
	Price      float64   `json:"price"`
	Quantity   int64     `json:"quantity"`
	ThumbsUp   int64     `json:"thumbs_up"`
	ThumbsDown int64     `json:"thumbs_down"`
}

// Validate validates the item fields against constraints.
func (i *Item) Validate() error {
	var violations []string

	if i.Name == "" {
		violations = append(violations, "name is required")
	}
	if len(i.Name) > MaxItemName {
		violations = append(violations, "name exceeds 256 characters")
	}
	if len(i.Keywords) > MaxKeywords {
		violations = append(violations, "at most 5 keywords allowed")
	}
	for _, kw := range i.Keywords {
		if len(kw) > MaxKeywordLength {
			violations = append(violations, "keyword exceeds 64 characters")
			break
		}
	}
	if !i.Condition.Valid() {
		violations = append(violations, "condition must be New or Used")
	}
	if i.Price < 0 {
		violations = append(violations, "price must not be negative")
	}
	if i.Quantity < 0 {
		violations = append(violations, "quantity must not be negative")
	}

	if len(violations) > 0 {
		return ErrItemValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// MatchesAnyKeyword reports whether any query keyword case-insensitively
// equals any of the item's stored keywords (OR semantics).
func (i *Item) MatchesAnyKeyword(queries []string) bool {
	for _, q := range queries {
		for _, kw := range i.Keywords {
			if strings.EqualFold(q, kw) {
				return true
			}
		}
	}
	return false
}

// Clone creates a deep copy of the item.
func (i *Item) Clone() *Item {
	clone := *i
	if i.Keywords != nil {
		clone.Keywords = make([]string, len(i.Keywords))
		copy(clone.Keywords, i.Keywords)
	}
	return &clone
}

// FeedbackKind is the direction of a feedback vote.
type FeedbackKind string

// Feedback kinds.
const (
	FeedbackUp   FeedbackKind = "up"
	FeedbackDown FeedbackKind = "down"
)

// Valid reports whether the feedback kind is known.
func (k FeedbackKind) Valid() bool {
	return k == FeedbackUp || k == FeedbackDown
}

// SellerRating aggregates feedback across all items a seller owns.
// A seller with no feedback has a zero-valued rating.
type SellerRating struct {
	SellerID   int64 `json:"seller_id"`
	ThumbsUp   int64 `json:"thumbs_up"`
	ThumbsDown int64 `json:"thumbs_down"`
}

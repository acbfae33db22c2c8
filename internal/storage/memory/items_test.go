package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
)

func createTestItem(t *testing.T, store *ItemStore, sellerID, category int64, name string, keywords []string, qty int64) *domain.Item {
	t.Helper()
	item, err := store.Create(context.Background(), &domain.Item{
		Key:       domain.ItemKey{Category: category},
		SellerID:  sellerID,
		Name:      name,
		Keywords:  keywords,
		Condition: domain.ConditionNew,
		Price:     10,
		Quantity:  qty,
	})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return item
}

func TestItemStorePerCategoryIDs(t *testing.T) {
	store := NewItemStore()

	a := createTestItem(t, store, 1, 1, "a", nil, 1)
	b := createTestItem(t, store, 1, 1, "b", nil, 1)
	c := createTestItem(t, store, 1, 2, "c", nil, 1)

	if a.Key.ID != 1 || b.Key.ID != 2 {
		t.Fatalf("category 1 ids = %d, %d, want 1, 2", a.Key.ID, b.Key.ID)
	}
	if c.Key.ID != 1 {
		t.Fatalf("category 2 first id = %d, want 1", c.Key.ID)
	}
}

func TestItemStoreIDsNeverReused(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	a := createTestItem(t, store, 1, 1, "a", nil, 1)
	// Selling out does not free the id.
	if err := store.TakeStock(ctx, a.Key, 1); err != nil {
		t.Fatalf("TakeStock() error = %v", err)
	}

	b := createTestItem(t, store, 1, 1, "b", nil, 1)
	if b.Key.ID != 2 {
		t.Fatalf("next id after sell-out = %d, want 2", b.Key.ID)
	}
}

func TestItemStoreConcurrentCreateDistinctIDs(t *testing.T) {
	store := NewItemStore()

	var wg sync.WaitGroup
	keys := make(chan domain.ItemKey, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := store.Create(context.Background(), &domain.Item{
				Key: domain.ItemKey{Category: 1}, SellerID: 1, Name: "x",
				Condition: domain.ConditionNew, Quantity: 1,
			})
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			keys <- item.Key
		}()
	}
	wg.Wait()
	close(keys)

	seen := make(map[domain.ItemKey]bool)
	for k := range keys {
		if seen[k] {
			t.Fatalf("duplicate key %v", k)
		}
		seen[k] = true
	}
	if len(seen) != 100 {
		t.Fatalf("created %d items, want 100", len(seen))
	}
}

func TestItemStoreTakeStock(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	item := createTestItem(t, store, 1, 1, "a", nil, 5)

	if err := store.TakeStock(ctx, item.Key, 3); err != nil {
		t.Fatalf("TakeStock(3) error = %v", err)
	}
	if err := store.TakeStock(ctx, item.Key, 3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("TakeStock(3 of 2) = %v, want ErrInsufficientStock", err)
	}

	got, _ := store.Get(ctx, item.Key)
	if got.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", got.Quantity)
	}
}

func TestItemStoreTakeStockConcurrent(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	item := createTestItem(t, store, 1, 1, "a", nil, 50)

	// 100 workers each take one unit; exactly 50 must succeed.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.TakeStock(ctx, item.Key, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 50 {
		t.Fatalf("succeeded = %d, want 50", succeeded)
	}
	got, _ := store.Get(ctx, item.Key)
	if got.Quantity != 0 {
		t.Fatalf("final quantity = %d, want 0", got.Quantity)
	}
}

func TestItemStoreSetPriceAndQuantity(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	item := createTestItem(t, store, 1, 1, "a", nil, 5)

	if err := store.SetPrice(ctx, item.Key, 99.5); err != nil {
		t.Fatalf("SetPrice() error = %v", err)
	}
	if err := store.SetQuantity(ctx, item.Key, 0); err != nil {
		t.Fatalf("SetQuantity() error = %v", err)
	}

	got, _ := store.Get(ctx, item.Key)
	if got.Price != 99.5 || got.Quantity != 0 {
		t.Fatalf("item = (%v, %d), want (99.5, 0)", got.Price, got.Quantity)
	}

	missing := domain.ItemKey{Category: 9, ID: 9}
	if err := store.SetPrice(ctx, missing, 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("SetPrice(missing) = %v, want ErrItemNotFound", err)
	}
}

func TestItemStoreSearch(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	createTestItem(t, store, 1, 1, "phone", []string{"phone", "apple"}, 3)
	createTestItem(t, store, 1, 1, "laptop", []string{"laptop"}, 3)
	createTestItem(t, store, 1, 1, "sold out", []string{"apple"}, 0)
	createTestItem(t, store, 1, 2, "other category", []string{"apple"}, 3)

	cat := int64(1)
	found, err := store.Search(ctx, &service.ItemFilter{Category: &cat, Keywords: []string{"APPLE"}})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(found) != 1 || found[0].Name != "phone" {
		t.Fatalf("Search(APPLE, cat 1) = %d items, want just the phone", len(found))
	}

	// No category filter spans categories.
	found, _ = store.Search(ctx, &service.ItemFilter{Keywords: []string{"apple"}})
	if len(found) != 2 {
		t.Fatalf("Search(apple, any cat) = %d items, want 2", len(found))
	}

	// No keywords returns everything in stock.
	found, _ = store.Search(ctx, &service.ItemFilter{Category: &cat})
	if len(found) != 2 {
		t.Fatalf("Search(cat 1) = %d items, want 2", len(found))
	}
}

func TestItemStoreListBySellerOrdered(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	createTestItem(t, store, 1, 2, "later category", nil, 1)
	createTestItem(t, store, 1, 1, "first", nil, 0)
	createTestItem(t, store, 1, 1, "second", nil, 1)
	createTestItem(t, store, 2, 1, "other seller", nil, 1)

	items, err := store.ListBySeller(ctx, 1)
	if err != nil {
		t.Fatalf("ListBySeller() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("ListBySeller() = %d items, want 3 (including sold out)", len(items))
	}
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1].Key, items[i].Key
		if prev.Category > cur.Category || (prev.Category == cur.Category && prev.ID >= cur.ID) {
			t.Fatalf("items not ordered by key: %v before %v", prev, cur)
		}
	}
}

func TestItemStoreFeedbackPair(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	item := createTestItem(t, store, 9, 1, "a", nil, 1)

	if err := store.RecordFeedback(ctx, item.Key, domain.FeedbackUp); err != nil {
		t.Fatalf("RecordFeedback(up) error = %v", err)
	}
	if err := store.RecordFeedback(ctx, item.Key, domain.FeedbackDown); err != nil {
		t.Fatalf("RecordFeedback(down) error = %v", err)
	}

	got, _ := store.Get(ctx, item.Key)
	rating, _ := store.SellerRating(ctx, 9)
	if got.ThumbsUp != 1 || got.ThumbsDown != 1 {
		t.Fatalf("item counters = (%d, %d), want (1, 1)", got.ThumbsUp, got.ThumbsDown)
	}
	if rating.ThumbsUp != 1 || rating.ThumbsDown != 1 {
		t.Fatalf("seller aggregate = (%d, %d), want (1, 1)", rating.ThumbsUp, rating.ThumbsDown)
	}
}

func TestItemStoreFeedbackPairConcurrent(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	item := createTestItem(t, store, 9, 1, "a", nil, 1)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := domain.FeedbackUp
			if i%2 == 1 {
				kind = domain.FeedbackDown
			}
			if err := store.RecordFeedback(ctx, item.Key, kind); err != nil {
				t.Errorf("RecordFeedback() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := store.Get(ctx, item.Key)
	rating, _ := store.SellerRating(ctx, 9)
	if got.ThumbsUp != 50 || got.ThumbsDown != 50 {
		t.Fatalf("item counters = (%d, %d), want (50, 50)", got.ThumbsUp, got.ThumbsDown)
	}
	if rating.ThumbsUp != got.ThumbsUp || rating.ThumbsDown != got.ThumbsDown {
		t.Fatalf("aggregate (%d, %d) diverged from item (%d, %d)",
			rating.ThumbsUp, rating.ThumbsDown, got.ThumbsUp, got.ThumbsDown)
	}
}

func TestItemStoreSellerRatingDefault(t *testing.T) {
	store := NewItemStore()
	rating, err := store.SellerRating(context.Background(), 404)
	if err != nil {
		t.Fatalf("SellerRating() error = %v", err)
	}
	if rating.ThumbsUp != 0 || rating.ThumbsDown != 0 {
		t.Fatalf("rating = %+v, want zero-valued", rating)
	}
}

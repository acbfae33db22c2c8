package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/openstall/stallgate/internal/core/domain"
)

func TestUserStoreCreate(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	created, err := store.Create(ctx, &domain.User{
		Username: "ada", Password: "pw", DisplayName: "Ada", Role: domain.RoleSeller,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("first ID = %d, want 1", created.ID)
	}

	got, err := store.GetByUsername(ctx, "ada")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID || got.Role != domain.RoleSeller {
		t.Fatalf("GetByUsername() = %+v, want created account", got)
	}

	byID, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Username != "ada" {
		t.Fatalf("GetByID().Username = %q, want ada", byID.Username)
	}
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	u := &domain.User{Username: "ada", Password: "pw", DisplayName: "Ada", Role: domain.RoleSeller}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := store.Create(ctx, u)
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("second Create() = %v, want ErrUsernameTaken", err)
	}
	if store.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", store.Count())
	}
}

func TestUserStoreUnknown(t *testing.T) {
	store := NewUserStore()
	if _, err := store.GetByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetByUsername(ghost) = %v, want ErrUserNotFound", err)
	}
	if _, err := store.GetByID(context.Background(), 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetByID(99) = %v, want ErrUserNotFound", err)
	}
}

func TestUserStoreCloneIsolation(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, &domain.User{
		Username: "ada", Password: "pw", DisplayName: "Ada", Role: domain.RoleSeller,
	})
	created.DisplayName = "mutated"

	got, _ := store.GetByUsername(ctx, "ada")
	if got.DisplayName != "Ada" {
		t.Fatalf("DisplayName = %q, caller mutation leaked into store", got.DisplayName)
	}
}

func TestUserStoreConcurrentCreateUniqueIDs(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := store.Create(ctx, &domain.User{
				Username: fmt.Sprintf("user-%d", i), Password: "pw",
				DisplayName: "U", Role: domain.RoleBuyer,
			})
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			ids <- u.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate ID %d", id)
		}
		seen[id] = true
	}
	if len(seen) != 100 {
		t.Fatalf("created %d accounts, want 100", len(seen))
	}
}

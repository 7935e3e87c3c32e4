package db_test

import (
	"context"
	"path/filepath"
	"pocketbook-server/src/db"
	"pocketbook-server/src/db/sqlite"
	"pocketbook-server/src/models"
	"testing"
	"time"
)

// countingStore counts listing calls that reach the underlying store.
type countingStore struct {
	db.Store
	accountLists  int
	categoryLists int
}

func (s *countingStore) ListAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error) {
	s.accountLists++
	return s.Store.ListAccounts(ctx, userID)
}

func (s *countingStore) ListCategories(ctx context.Context, userID, kind string) ([]models.CategorySummary, error) {
	s.categoryLists++
	return s.Store.ListCategories(ctx, userID, kind)
}

func newCachedStore(t *testing.T) (*db.CachedStore, *countingStore) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	cache, err := db.NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	counting := &countingStore{Store: store}
	cached := db.NewCachedStore(counting, cache)
	t.Cleanup(func() { cached.Close() })
	return cached, counting
}

func TestCacheInvalidateDropsTag(t *testing.T) {
	cache, err := db.NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer cache.Close()

	key := cache.Key("accounts:u1", "list")
	cache.Set("accounts:u1", key, 42)
	if v, ok := cache.Get(key); !ok || v != 42 {
		t.Fatalf("Get = %v, %v", v, ok)
	}
	other := cache.Key("accounts:u2", "list")
	cache.Set("accounts:u2", other, 7)

	cache.Invalidate("accounts:u1")
	if _, ok := cache.Get(key); ok {
		t.Error("value survived invalidation")
	}
	if cache.Key("accounts:u1", "list") == key {
		t.Error("key unchanged after invalidation")
	}
	if v, ok := cache.Get(other); !ok || v != 7 {
		t.Errorf("other tag lost its value: %v, %v", v, ok)
	}
}

func TestCachedStoreServesListingsUntilWrite(t *testing.T) {
	store, counting := newCachedStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, &models.User{Email: "cache@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	account, err := store.CreateAccount(ctx, &models.Account{
		UserID: user.ID, Name: "Checking", Type: "CHECKING", Currency: "USD", Color: "#3b82f6", Icon: "🏦",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.ListAccounts(ctx, user.ID); err != nil {
			t.Fatalf("ListAccounts: %v", err)
		}
	}
	if counting.accountLists != 1 {
		t.Errorf("store hit %d times, want 1", counting.accountLists)
	}

	_, err = store.CreateTransaction(ctx, &models.Transaction{
		UserID: user.ID, AccountID: account.ID, Amount: 2500, Date: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	accounts, err := store.ListAccounts(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if counting.accountLists != 2 {
		t.Errorf("store hit %d times after write, want 2", counting.accountLists)
	}
	if len(accounts) != 1 || accounts[0].Balance != 2500 {
		t.Errorf("stale listing: %+v", accounts)
	}
}

func TestCachedStoreKeysCategoriesByKind(t *testing.T) {
	store, counting := newCachedStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, &models.User{Email: "kinds@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := store.CreateCategory(ctx, &models.Category{UserID: user.ID, Name: "Salary", Kind: models.CategoryKindIncome}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	all, _ := store.ListCategories(ctx, user.ID, "")
	expense, _ := store.ListCategories(ctx, user.ID, models.CategoryKindExpense)
	if len(all) != 1 || len(expense) != 0 {
		t.Errorf("all %d expense %d, want 1 and 0", len(all), len(expense))
	}
	if counting.categoryLists != 2 {
		t.Errorf("store hit %d times, want 2", counting.categoryLists)
	}

	if _, err := store.CreateCategory(ctx, &models.Category{UserID: user.ID, Name: "Rent", Kind: models.CategoryKindExpense}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	expense, _ = store.ListCategories(ctx, user.ID, models.CategoryKindExpense)
	if len(expense) != 1 {
		t.Errorf("expense categories = %d after create, want 1", len(expense))
	}
}

package db

import (
	"context"
	"fmt"
	"log"
	"pocketbook-server/src/models"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache keeps listing results keyed under a tag (one tag per user and record
// type) so that every key of a tag can be dropped at once after a write.
// Keys embed the tag's generation, so a value computed before an
// invalidation is stored under a generation nobody reads anymore.
type Cache struct {
	store *ristretto.Cache[string, any]

	mu          sync.Mutex
	keys        map[string]map[string]struct{}
	generations map[string]uint64
}

func NewCache() (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache{
		store:       store,
		keys:        make(map[string]map[string]struct{}),
		generations: make(map[string]uint64),
	}, nil
}

// Key builds the cache key for name under the current generation of tag.
func (c *Cache) Key(tag, name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%s#%d:%s", tag, c.generations[tag], name)
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(tag, key string, value any) {
	c.mu.Lock()
	if c.keys[tag] == nil {
		c.keys[tag] = make(map[string]struct{})
	}
	c.keys[tag][key] = struct{}{}
	c.mu.Unlock()
	c.store.Set(key, value, 1)
	c.store.Wait()
}

func (c *Cache) Invalidate(tag string) {
	c.mu.Lock()
	c.generations[tag]++
	keys := c.keys[tag]
	delete(c.keys, tag)
	c.mu.Unlock()
	for key := range keys {
		c.store.Del(key)
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	for tag := range c.keys {
		c.generations[tag]++
	}
	c.keys = make(map[string]map[string]struct{})
	c.mu.Unlock()
	c.store.Clear()
}

func (c *Cache) Close() {
	c.store.Close()
}

func accountsTag(userID string) string   { return "accounts:" + userID }
func categoriesTag(userID string) string { return "categories:" + userID }

// CachedStore serves account and category listings from a Cache and drops
// them whenever a write can change balances or counts.
type CachedStore struct {
	Store
	cache *Cache
}

func NewCachedStore(store Store, cache *Cache) *CachedStore {
	return &CachedStore{Store: store, cache: cache}
}

func cached[T any](c *Cache, tag, name string, load func() (T, error)) (T, error) {
	key := c.Key(tag, name)
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(tag, key, v)
	return v, nil
}

func (s *CachedStore) ListAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error) {
	return cached(s.cache, accountsTag(userID), "list", func() ([]models.AccountSummary, error) {
		return s.Store.ListAccounts(ctx, userID)
	})
}

func (s *CachedStore) ListAccountOptions(ctx context.Context, userID string) ([]models.AccountOption, error) {
	return cached(s.cache, accountsTag(userID), "options", func() ([]models.AccountOption, error) {
		return s.Store.ListAccountOptions(ctx, userID)
	})
}

func (s *CachedStore) ListCategories(ctx context.Context, userID, kind string) ([]models.CategorySummary, error) {
	return cached(s.cache, categoriesTag(userID), "list:"+kind, func() ([]models.CategorySummary, error) {
		return s.Store.ListCategories(ctx, userID, kind)
	})
}

func (s *CachedStore) ListCategoryOptions(ctx context.Context, userID string) ([]models.CategoryOption, error) {
	return cached(s.cache, categoriesTag(userID), "options", func() ([]models.CategoryOption, error) {
		return s.Store.ListCategoryOptions(ctx, userID)
	})
}

func (s *CachedStore) invalidateAccounts(userID string) {
	s.cache.Invalidate(accountsTag(userID))
}

func (s *CachedStore) invalidateCategories(userID string) {
	s.cache.Invalidate(categoriesTag(userID))
}

func (s *CachedStore) invalidateAll(userID string) {
	s.invalidateAccounts(userID)
	s.invalidateCategories(userID)
}

func (s *CachedStore) DeleteUser(ctx context.Context, id string) error {
	err := s.Store.DeleteUser(ctx, id)
	s.invalidateAll(id)
	return err
}

func (s *CachedStore) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	created, err := s.Store.CreateAccount(ctx, account)
	s.invalidateAccounts(account.UserID)
	return created, err
}

func (s *CachedStore) UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	updated, err := s.Store.UpdateAccount(ctx, account)
	s.invalidateAccounts(account.UserID)
	return updated, err
}

func (s *CachedStore) DeleteAccount(ctx context.Context, userID, id string) error {
	err := s.Store.DeleteAccount(ctx, userID, id)
	s.invalidateAccounts(userID)
	return err
}

func (s *CachedStore) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	created, err := s.Store.CreateCategory(ctx, category)
	s.invalidateCategories(category.UserID)
	return created, err
}

func (s *CachedStore) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	updated, err := s.Store.UpdateCategory(ctx, category)
	s.invalidateCategories(category.UserID)
	return updated, err
}

func (s *CachedStore) DeleteCategory(ctx context.Context, userID, id string) error {
	err := s.Store.DeleteCategory(ctx, userID, id)
	s.invalidateCategories(userID)
	return err
}

func (s *CachedStore) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	created, err := s.Store.CreateTransaction(ctx, txn)
	s.invalidateAll(txn.UserID)
	return created, err
}

func (s *CachedStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	updated, err := s.Store.UpdateTransaction(ctx, txn)
	s.invalidateAll(txn.UserID)
	return updated, err
}

func (s *CachedStore) SetTransactionCategory(ctx context.Context, userID, id, categoryID string) error {
	err := s.Store.SetTransactionCategory(ctx, userID, id, categoryID)
	s.invalidateCategories(userID)
	return err
}

func (s *CachedStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	err := s.Store.DeleteTransaction(ctx, userID, id)
	s.invalidateAll(userID)
	return err
}

func (s *CachedStore) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	created, err := s.Store.CreateBudget(ctx, budget)
	s.invalidateCategories(budget.UserID)
	return created, err
}

func (s *CachedStore) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	updated, err := s.Store.UpdateBudget(ctx, budget)
	s.invalidateCategories(budget.UserID)
	return updated, err
}

func (s *CachedStore) DeleteBudget(ctx context.Context, userID, id string) error {
	err := s.Store.DeleteBudget(ctx, userID, id)
	s.invalidateCategories(userID)
	return err
}

func (s *CachedStore) DeleteAllData(ctx context.Context) error {
	err := s.Store.DeleteAllData(ctx)
	s.cache.Clear()
	return err
}

func (s *CachedStore) Close() error {
	s.cache.Close()
	log.Println("INFO: Cache closed")
	return s.Store.Close()
}

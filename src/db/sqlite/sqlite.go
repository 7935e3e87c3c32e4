package sqlite

import (
	"context"
	"errors"
	"fmt"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"strings"
	"time"

	"github.com/google/uuid"
	driver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store keeps everything in a single SQLite file through gorm. Ownership
// cascades that Postgres handles with foreign keys are done by hand here.
type Store struct {
	db *gorm.DB
}

var _ db.Store = (*Store)(nil)

func Open(path string) (*Store, error) {
	gdb, err := gorm.Open(driver.Open(path), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Store{db: gdb}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Goal{},
		&models.Bill{},
		&models.CategoryRule{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var ownedTables = []string{"category_rules", "bills", "goals", "budgets", "transactions", "categories", "accounts"}

func (s *Store) DeleteAllData(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range append(ownedTables, "users") {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", db.ErrDuplicate, err)
	}
	return err
}

func expectOne(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

// first loads a single row owned by userID into dest.
func (s *Store) first(ctx context.Context, dest any, userID, id string) error {
	return translate(s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).First(dest).Error)
}

func (s *Store) deleteOwned(ctx context.Context, model any, userID, id string) error {
	return expectOne(s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(model))
}

// updateOwned applies values to the row owned by userID.
func (s *Store) updateOwned(ctx context.Context, model any, userID, id string, values map[string]any) error {
	values["updated_at"] = time.Now().UTC()
	return expectOne(s.conn(ctx).Model(model).Where("id = ? AND user_id = ?", id, userID).Updates(values))
}

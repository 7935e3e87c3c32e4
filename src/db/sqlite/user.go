package sqlite

import (
	"context"
	"fmt"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"

	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.ID = newID(u.ID)
	if err := s.conn(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translate(err))
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return expectOne(s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash))
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range ownedTables {
			if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return db.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", translate(err))
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zh1gn/FoundItBot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserExists reports whether a user row exists for the id.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if errCount := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error; errCount != nil {
		return false, fmt.Errorf("store: check user %d: %w", id, errCount)
	}
	return count > 0, nil
}

// CreateUser inserts a user unless the id is already registered. A duplicate
// insert is swallowed and reported as created=false, matching the
// find-or-register path.
func (s *Store) CreateUser(ctx context.Context, id int64, handle, fullName string) (bool, error) {
	user := models.User{
		ID:       id,
		Handle:   handle,
		FullName: fullName,
		Active:   true,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return false, fmt.Errorf("store: create user %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetUser returns the user row for the id, or nil when not registered.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: get user %d: %w", id, errFind)
	}
	return &user, nil
}

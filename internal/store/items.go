package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zh1gn/FoundItBot/internal/models"
	"github.com/zh1gn/FoundItBot/internal/qr"
	"gorm.io/gorm"
)

// codeAttempts bounds how many generated codes are tried before the insert is
// reported as a duplicate-code conflict.
const codeAttempts = 5

// CreateItem registers a new item for the user and increments the owner's
// cached item count in the same transaction. Code collisions are retried with
// fresh codes up to the attempt budget.
func (s *Store) CreateItem(ctx context.Context, userID int64, expiresAt *time.Time) (*models.Item, error) {
	var item *models.Item
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, errCreate := createItemTx(tx, userID, expiresAt)
		if errCreate != nil {
			return errCreate
		}
		item = created
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, ErrDuplicateCode) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("store: create item for %d: %w", userID, errTx)
	}
	return item, nil
}

// ClaimEntitlement creates the one item a subscription term entitles the user
// to. The qr_issued flip, the item insert, and the counter update share one
// transaction, so two concurrent claims cannot both mint an item.
//
// Results: (nil, false) when no active subscription exists; (item, false) when
// the entitlement was already used and its unexpired item is returned;
// (item, true) when a new item was created.
func (s *Store) ClaimEntitlement(ctx context.Context, userID int64) (*models.Item, bool, error) {
	var (
		item    *models.Item
		claimed bool
	)
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var sub models.Subscription
		errFind := tx.
			Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, now).
			Order("expires_at DESC").
			First(&sub).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return nil
			}
			return errFind
		}

		// The guarded update re-checks qr_issued atomically; a concurrent
		// claim that won the race leaves RowsAffected at zero.
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND qr_issued = ?", sub.ID, false).
			Update("qr_issued", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			existing, errExisting := liveItemTx(tx, userID, now)
			if errExisting != nil {
				return errExisting
			}
			item = existing
			return nil
		}

		expiry := sub.ExpiresAt
		created, errCreate := createItemTx(tx, userID, &expiry)
		if errCreate != nil {
			return errCreate
		}
		item = created
		claimed = true
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, ErrDuplicateCode) {
			return nil, false, ErrDuplicateCode
		}
		return nil, false, fmt.Errorf("store: claim entitlement for %d: %w", userID, errTx)
	}
	return item, claimed, nil
}

// createItemTx inserts an item with a freshly generated code and bumps the
// owner counter inside the caller's transaction.
func createItemTx(tx *gorm.DB, userID int64, expiresAt *time.Time) (*models.Item, error) {
	var item models.Item
	inserted := false
	for attempt := 0; attempt < codeAttempts; attempt++ {
		item = models.Item{
			Code:      qr.GenerateCode(),
			UserID:    userID,
			Active:    true,
			ExpiresAt: expiresAt,
		}
		errCreate := tx.Create(&item).Error
		if errCreate == nil {
			inserted = true
			break
		}
		if !isUniqueViolation(errCreate) {
			return nil, errCreate
		}
	}
	if !inserted {
		return nil, ErrDuplicateCode
	}

	if errCount := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("total_items", gorm.Expr("total_items + 1")).Error; errCount != nil {
		return nil, errCount
	}
	return &item, nil
}

// liveItemTx returns the user's newest active, unexpired item, or nil.
func liveItemTx(tx *gorm.DB, userID int64, now time.Time) (*models.Item, error) {
	var existing models.Item
	errFind := tx.
		Where("user_id = ? AND active = ?", userID, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("added_at DESC").
		First(&existing).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errFind
	}
	return &existing, nil
}

// ItemByCode returns the active item carrying the code. Soft-deleted and
// never-issued codes are indistinguishable: both return nil.
func (s *Store) ItemByCode(ctx context.Context, code string) (*models.Item, error) {
	var item models.Item
	errFind := s.db.WithContext(ctx).
		Where("code = ? AND active = ?", qr.NormalizeCode(code), true).
		First(&item).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: item by code %s: %w", code, errFind)
	}
	return &item, nil
}

// UserItems lists the user's active items, newest first.
func (s *Store) UserItems(ctx context.Context, userID int64) ([]models.Item, error) {
	var items []models.Item
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("added_at DESC").
		Find(&items).Error; errFind != nil {
		return nil, fmt.Errorf("store: items for %d: %w", userID, errFind)
	}
	return items, nil
}

// DeleteItem soft-deletes an item when both code and claimed owner match, and
// decrements the owner's cached count. A mismatch or missing row returns
// false without distinguishing the two; the caller must not learn whether a
// foreign code exists.
func (s *Store) DeleteItem(ctx context.Context, code string, userID int64) (bool, error) {
	deleted := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("code = ? AND user_id = ? AND active = ?", qr.NormalizeCode(code), userID, true).
			Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("total_items", gorm.Expr("CASE WHEN total_items > 0 THEN total_items - 1 ELSE 0 END")).Error
	})
	if errTx != nil {
		return false, fmt.Errorf("store: delete item %s: %w", code, errTx)
	}
	return deleted, nil
}

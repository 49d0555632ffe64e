package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zh1gn/FoundItBot/internal/models"
	"gorm.io/gorm"
)

// ActiveSubscription returns the user's current subscription: the most recent
// active row whose term has not passed. Nil when no entitlement exists.
func (s *Store) ActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, time.Now().UTC()).
		Order("expires_at DESC").
		First(&sub).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: active subscription for %d: %w", userID, errFind)
	}
	return &sub, nil
}

// CreateSubscription activates a new plan term for the user. All prior active
// subscriptions are deactivated in the same transaction, so the
// one-active-per-user invariant never sees a window with two active rows.
func (s *Store) CreateSubscription(ctx context.Context, userID int64, plan string, days int) (*models.Subscription, error) {
	now := time.Now().UTC()
	sub := models.Subscription{
		UserID:    userID,
		Plan:      plan,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, days),
		QRIssued:  false,
		Active:    true,
	}

	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errDeactivate := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; errDeactivate != nil {
			return errDeactivate
		}
		return tx.Create(&sub).Error
	})
	if errTx != nil {
		return nil, fmt.Errorf("store: create subscription for %d: %w", userID, errTx)
	}
	return &sub, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/zh1gn/FoundItBot/internal/models"
)

// AddPendingPayment enqueues a manual-payment report for admin review. It
// never activates anything by itself.
func (s *Store) AddPendingPayment(ctx context.Context, userID int64, plan string) error {
	payment := models.PendingPayment{UserID: userID, Plan: plan}
	if errCreate := s.db.WithContext(ctx).Create(&payment).Error; errCreate != nil {
		return fmt.Errorf("store: add pending payment for %d: %w", userID, errCreate)
	}
	return nil
}

// PendingPayments lists the worklist oldest-first with user rows attached.
func (s *Store) PendingPayments(ctx context.Context) ([]models.PendingPayment, error) {
	var payments []models.PendingPayment
	if errFind := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at ASC").
		Find(&payments).Error; errFind != nil {
		return nil, fmt.Errorf("store: pending payments: %w", errFind)
	}
	return payments, nil
}

// ConsumePendingPayments deletes the user's pending rows for a plan once an
// administrator has activated it.
func (s *Store) ConsumePendingPayments(ctx context.Context, userID int64, plan string) error {
	if errDelete := s.db.WithContext(ctx).
		Where("user_id = ? AND plan = ?", userID, plan).
		Delete(&models.PendingPayment{}).Error; errDelete != nil {
		return fmt.Errorf("store: consume pending payments for %d: %w", userID, errDelete)
	}
	return nil
}

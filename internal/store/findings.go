package store

import (
	"context"
	"fmt"

	"github.com/zh1gn/FoundItBot/internal/models"
	"github.com/zh1gn/FoundItBot/internal/qr"
	"gorm.io/gorm"
)

// findingsHistoryLimit caps how many findings a history query returns.
const findingsHistoryLimit = 20

// CreateFinding records a scan event. The insert, the item's found counter,
// the owner's found aggregate, and the finder's helped counter commit
// atomically; a failure rolls the whole event back.
//
// Self-finds are rejected by the lifecycle engine before this call.
func (s *Store) CreateFinding(ctx context.Context, finding *models.Finding) error {
	if finding == nil {
		return fmt.Errorf("store: nil finding")
	}
	finding.Code = qr.NormalizeCode(finding.Code)
	if finding.Status == "" {
		finding.Status = models.FindingStatusPending
	}

	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(finding).Error; errCreate != nil {
			return errCreate
		}
		if errItem := tx.Model(&models.Item{}).
			Where("code = ? AND active = ?", finding.Code, true).
			Update("times_found", gorm.Expr("times_found + 1")).Error; errItem != nil {
			return errItem
		}
		if errOwner := tx.Model(&models.User{}).
			Where("id = ?", finding.OwnerID).
			Update("total_found", gorm.Expr("total_found + 1")).Error; errOwner != nil {
			return errOwner
		}
		if finding.FinderID != nil {
			if errFinder := tx.Model(&models.User{}).
				Where("id = ?", *finding.FinderID).
				Update("times_helped", gorm.Expr("times_helped + 1")).Error; errFinder != nil {
				return errFinder
			}
		}
		return nil
	})
	if errTx != nil {
		return fmt.Errorf("store: create finding for %s: %w", finding.Code, errTx)
	}
	return nil
}

// UserFindings lists recent findings for a user, either as the owner whose
// items were found or as the finder.
func (s *Store) UserFindings(ctx context.Context, userID int64, asOwner bool) ([]models.Finding, error) {
	query := s.db.WithContext(ctx).Order("found_at DESC").Limit(findingsHistoryLimit)
	if asOwner {
		query = query.Where("owner_id = ?", userID)
	} else {
		query = query.Where("finder_id = ?", userID)
	}

	var findings []models.Finding
	if errFind := query.Find(&findings).Error; errFind != nil {
		return nil, fmt.Errorf("store: findings for %d: %w", userID, errFind)
	}
	return findings, nil
}

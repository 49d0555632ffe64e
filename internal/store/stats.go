package store

import (
	"context"
	"fmt"
	"math"

	"github.com/zh1gn/FoundItBot/internal/models"
	"gorm.io/gorm"
)

// Statistics holds on-demand service aggregates.
type Statistics struct {
	TotalUsers      int64   `json:"total_users"`        // Active registered users.
	TotalItems      int64   `json:"total_items"`        // Active registered items.
	TotalFindings   int64   `json:"total_findings"`     // Findings ever recorded.
	TotalReviews    int64   `json:"total_reviews"`      // Reviews ever submitted.
	AvgItemsPerUser float64 `json:"avg_items_per_user"` // Active items per active user.
	AvgRating       float64 `json:"avg_rating"`         // Mean review rating; 0 with no reviews.
}

// Statistics computes service aggregates on demand. All counts are taken
// inside one read transaction so they describe a single consistent snapshot.
func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errUsers := tx.Model(&models.User{}).
			Where("active = ?", true).
			Count(&stats.TotalUsers).Error; errUsers != nil {
			return errUsers
		}
		if errItems := tx.Model(&models.Item{}).
			Where("active = ?", true).
			Count(&stats.TotalItems).Error; errItems != nil {
			return errItems
		}
		if errFindings := tx.Model(&models.Finding{}).
			Count(&stats.TotalFindings).Error; errFindings != nil {
			return errFindings
		}
		if errReviews := tx.Model(&models.Review{}).
			Count(&stats.TotalReviews).Error; errReviews != nil {
			return errReviews
		}
		if stats.TotalReviews > 0 {
			var avg struct {
				Avg float64
			}
			if errAvg := tx.Model(&models.Review{}).
				Select("AVG(rating) AS avg").
				Take(&avg).Error; errAvg != nil {
				return errAvg
			}
			stats.AvgRating = round1(avg.Avg)
		}
		return nil
	})
	if errTx != nil {
		return Statistics{}, fmt.Errorf("store: statistics: %w", errTx)
	}

	if stats.TotalUsers > 0 {
		stats.AvgItemsPerUser = round1(float64(stats.TotalItems) / float64(stats.TotalUsers))
	}
	return stats, nil
}

// round1 rounds to one decimal place for display-stable averages.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

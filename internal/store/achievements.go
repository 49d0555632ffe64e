package store

import (
	"context"
	"fmt"

	"github.com/zh1gn/FoundItBot/internal/models"
	"gorm.io/gorm/clause"
)

// UnlockAchievement records an achievement unlock. The unique (user, key)
// constraint absorbs duplicates, so two racing unlocks of the same key leave
// exactly one row; the loser reports unlocked=false.
func (s *Store) UnlockAchievement(ctx context.Context, userID int64, key string) (bool, error) {
	achievement := models.Achievement{UserID: userID, Key: key}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&achievement)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, fmt.Errorf("store: unlock achievement %s for %d: %w", key, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UserAchievements lists a user's unlocks, oldest first.
func (s *Store) UserAchievements(ctx context.Context, userID int64) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&achievements).Error; errFind != nil {
		return nil, fmt.Errorf("store: achievements for %d: %w", userID, errFind)
	}
	return achievements, nil
}

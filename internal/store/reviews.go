package store

import (
	"context"
	"fmt"

	"github.com/zh1gn/FoundItBot/internal/models"
)

// AddReview appends a review row. Rating range is validated by the caller
// before the store is touched; there is no update or delete path.
func (s *Store) AddReview(ctx context.Context, userID int64, fullName string, rating int, text string) error {
	review := models.Review{
		UserID:     userID,
		FullName:   fullName,
		Rating:     rating,
		ReviewText: text,
	}
	if errCreate := s.db.WithContext(ctx).Create(&review).Error; errCreate != nil {
		return fmt.Errorf("store: add review for %d: %w", userID, errCreate)
	}
	return nil
}

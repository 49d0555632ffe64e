package models

import "time"

// Review is an append-only user rating with optional free text.
type Review struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID   int64  `gorm:"not null;index"` // Author user id.
	FullName string `gorm:"type:text"`      // Author display name at submit time.

	Rating     int    `gorm:"not null"`  // Rating in 1..5, validated before insert.
	ReviewText string `gorm:"type:text"` // Free text, may be empty.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Submission timestamp.
}

package models

import "time"

// Achievement records a threshold unlock derived from user counters.
//
// The (user_id, key) pair is unique at the store layer so that two racing
// unlock attempts cannot produce duplicate rows.
type Achievement struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID int64  `gorm:"not null;uniqueIndex:idx_achievements_user_key"`           // Owning user id.
	Key    string `gorm:"type:text;not null;uniqueIndex:idx_achievements_user_key"` // Achievement key.

	UnlockedAt time.Time `gorm:"not null;autoCreateTime"` // Unlock timestamp.
}

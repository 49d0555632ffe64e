package models

import "time"

// User represents a registered account stored in the database.
//
// The primary key is the transport-level user id, so rows are created with an
// explicit id rather than auto-increment. Users are never hard-deleted.
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement:false"` // Transport user id.

	Handle   string `gorm:"type:text"` // Public handle, may be empty.
	FullName string `gorm:"type:text"` // Display name.

	TotalItems  int `gorm:"not null;default:0"` // Cached count of active items owned.
	TotalFound  int `gorm:"not null;default:0"` // Times this user's items were found.
	TimesHelped int `gorm:"not null;default:0"` // Findings this user made for others.

	Active bool `gorm:"not null;default:true"` // Soft-delete flag.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

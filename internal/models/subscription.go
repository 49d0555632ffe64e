package models

import "time"

// Subscription represents a paid package term that entitles a user to one item
// code for the duration of the term.
type Subscription struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID int64 `gorm:"not null;index"`    // Owning user id.
	User   User  `gorm:"foreignKey:UserID"` // Owning user record.

	Plan string `gorm:"type:text;not null"` // Plan key, e.g. month_1.

	StartedAt time.Time `gorm:"not null"` // Term start time.
	ExpiresAt time.Time `gorm:"not null"` // Term end time.

	QRIssued bool `gorm:"column:qr_issued;not null;default:false"` // Whether the entitled item was created.
	Active   bool `gorm:"not null;default:true"`                   // Cleared when superseded by a newer subscription.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Expired reports whether the subscription term has passed at the given time.
func (s Subscription) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

package models

import "time"

// PendingPayment is a worklist entry created when a user reports a manual
// payment. An administrator consumes it by activating the plan.
type PendingPayment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID int64 `gorm:"not null;index"`    // Paying user id.
	User   User  `gorm:"foreignKey:UserID"` // Paying user record.

	Plan string `gorm:"type:text;not null"` // Requested plan key.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Enqueue timestamp.
}

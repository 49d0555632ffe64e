package models

import "time"

// Item represents a physical object identified by a printed code.
//
// The code is the only label: there is no name or type column. Deleting an
// item clears Active and keeps the row for history and aggregates.
type Item struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Code string `gorm:"type:text;not null;uniqueIndex"` // Public short code, globally unique.

	UserID int64 `gorm:"not null;index"`    // Owning user id.
	User   User  `gorm:"foreignKey:UserID"` // Owning user record.

	TimesFound int  `gorm:"not null;default:0"`    // Number of findings recorded.
	Active     bool `gorm:"not null;default:true"` // Soft-delete flag.

	AddedAt   time.Time  `gorm:"not null;autoCreateTime"` // Registration timestamp.
	ExpiresAt *time.Time `gorm:"index"`                   // Inherited term end; nil never expires.
}

// Expired reports whether the item has passed its expiry at the given time.
// Items without an expiry never expire.
func (i Item) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !i.ExpiresAt.After(now)
}

package models

import "time"

// FindingStatus represents the resolution state of a finding.
type FindingStatus string

// FindingStatus constants define finding resolution states.
const (
	// FindingStatusPending marks a finding awaiting owner contact.
	FindingStatusPending FindingStatus = "pending"
	// FindingStatusReturned marks an item returned to its owner.
	FindingStatusReturned FindingStatus = "returned"
	// FindingStatusLost marks a finding that never resolved.
	FindingStatusLost FindingStatus = "lost"
)

// Finding records a scan of an item code by someone other than its owner.
type Finding struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Code string `gorm:"type:text;not null;index"` // Scanned item code.

	OwnerID  int64  `gorm:"not null;index"` // Item owner at scan time.
	FinderID *int64 `gorm:"index"`          // Finder user id; nil when unregistered.

	FinderName   string `gorm:"type:text"` // Finder display name.
	FinderHandle string `gorm:"type:text"` // Finder handle, may be empty.
	Location     string `gorm:"type:text"` // Optional free-text location note.

	Status FindingStatus `gorm:"type:text;not null;default:pending"` // Resolution state.

	FoundAt time.Time `gorm:"not null;autoCreateTime"` // Scan timestamp.
}

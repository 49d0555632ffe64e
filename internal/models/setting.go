package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is a keyed JSON value seeded at migration and editable at runtime.
type Setting struct {
	Key   string         `gorm:"primaryKey;type:text"` // Setting key.
	Value datatypes.JSON `gorm:"type:jsonb;not null"`  // JSON-encoded value.

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

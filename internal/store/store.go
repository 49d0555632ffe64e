// Package store implements the durable state of the service over GORM.
//
// Every mutating operation runs as a single transaction per logical action:
// an item insert and its owner counter update commit together or not at all.
// Recoverable conflicts (duplicate user, ownership mismatch, code collision
// past the retry budget) are reported as typed results, never as panics.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store persists users, subscriptions, items, findings, reviews, pending
// payments, and achievements.
type Store struct {
	db *gorm.DB
}

// New constructs a Store over an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ErrDuplicateCode indicates code generation kept colliding past the retry
// budget. Callers treat it as a recoverable conflict.
var ErrDuplicateCode = errors.New("store: duplicate item code")

// isUniqueViolation reports whether an error is a unique-constraint
// rejection from the underlying driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

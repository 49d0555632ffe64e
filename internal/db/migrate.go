package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zh1gn/FoundItBot/internal/models"
	"github.com/zh1gn/FoundItBot/internal/settings"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect. It is idempotent
// and must succeed before the service starts serving.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Item{},
		&models.Finding{},
		&models.Review{},
		&models.PendingPayment{},
		&models.Achievement{},
		&models.Setting{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	if errSeed := ensureSetting(conn, settings.PaymentDetailsKey, ""); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureSetting(conn, settings.SiteNameKey, settings.DefaultSiteName); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureSetting(conn, settings.PublicRateLimitKey, settings.DefaultPublicRateLimit); errSeed != nil {
		return errSeed
	}

	// ddl defines an index statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_subscriptions_user_active_expiry",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_subscriptions_user_active_expiry
				ON subscriptions (user_id, active, expires_at DESC)
			`,
		},
		{
			name: "idx_items_user_active",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_items_user_active
				ON items (user_id, active, added_at DESC)
			`,
		},
		{
			name: "idx_findings_owner_found_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_findings_owner_found_at
				ON findings (owner_id, found_at DESC)
			`,
		},
		{
			name: "idx_findings_finder_found_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_findings_finder_found_at
				ON findings (finder_id, found_at DESC)
			`,
		},
		{
			name: "idx_pending_payments_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_pending_payments_created_at
				ON pending_payments (created_at ASC)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	return nil
}

// ensureSetting ensures a setting row exists with a JSON-encoded default.
func ensureSetting(conn *gorm.DB, key string, value any) error {
	payload, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return fmt.Errorf("db: marshal %s setting: %w", key, errMarshal)
	}

	var existing models.Setting
	if errFind := conn.Where("key = ?", key).First(&existing).Error; errFind == nil {
		return nil
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query %s setting: %w", key, errFind)
	}

	setting := models.Setting{
		Key:       key,
		Value:     payload,
		UpdatedAt: time.Now().UTC(),
	}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		return fmt.Errorf("db: create %s setting: %w", key, errCreate)
	}
	return nil
}

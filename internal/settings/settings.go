// Package settings reads runtime-editable values from the settings table.
package settings

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/zh1gn/FoundItBot/internal/models"
	"gorm.io/gorm"
)

// DB config keys and defaults for settings.
const (
	// SiteNameKey is the DB config key for the public service name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback service name.
	DefaultSiteName = "QR Finder"
	// PaymentDetailsKey is the DB config key for manual payment instructions.
	PaymentDetailsKey = "PAYMENT_DETAILS"
	// PublicRateLimitKey controls the public lookup rate limit per second.
	PublicRateLimitKey = "PUBLIC_RATE_LIMIT"
	// DefaultPublicRateLimit is the fallback lookup limit (0 disables it).
	DefaultPublicRateLimit = 10
)

// Service reads settings with per-key defaults.
type Service struct {
	db *gorm.DB
}

// NewService constructs a Service over an open gorm connection.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SiteName returns the configured service name.
func (s *Service) SiteName(ctx context.Context) string {
	if value, ok := s.stringValue(ctx, SiteNameKey); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return DefaultSiteName
}

// PaymentDetails returns the configured payment instructions, empty when
// unset.
func (s *Service) PaymentDetails(ctx context.Context) string {
	value, _ := s.stringValue(ctx, PaymentDetailsKey)
	return value
}

// PublicRateLimit returns the lookup requests-per-second cap.
func (s *Service) PublicRateLimit(ctx context.Context) int {
	raw, ok := s.rawValue(ctx, PublicRateLimitKey)
	if !ok {
		return DefaultPublicRateLimit
	}
	var limit int
	if errUnmarshal := json.Unmarshal(raw, &limit); errUnmarshal != nil || limit < 0 {
		return DefaultPublicRateLimit
	}
	return limit
}

func (s *Service) stringValue(ctx context.Context, key string) (string, bool) {
	raw, ok := s.rawValue(ctx, key)
	if !ok {
		return "", false
	}
	var value string
	if errUnmarshal := json.Unmarshal(raw, &value); errUnmarshal != nil {
		return "", false
	}
	return value, true
}

func (s *Service) rawValue(ctx context.Context, key string) (json.RawMessage, bool) {
	var setting models.Setting
	errFind := s.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errFind != nil {
		return nil, false
	}
	if len(setting.Value) == 0 {
		return nil, false
	}
	return json.RawMessage(setting.Value), true
}

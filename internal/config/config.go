package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvBotUsername  = "BOT_USERNAME"
	EnvAdminID      = "ADMIN_ID"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
)

// Plan describes a purchasable package. Each package entitles the buyer to
// exactly one item code for the duration of the term.
type Plan struct {
	Label string `yaml:"label"` // Human-readable description.
	Price int    `yaml:"price"` // Price in the local currency.
	Days  int    `yaml:"days"`  // Term length in days.
}

// JWTConfig holds admin API token secret and expiry settings. An empty
// secret disables the HTTP admin surface entirely.
type JWTConfig struct {
	Secret string        `yaml:"secret"` // HMAC signing key for admin tokens.
	Expiry time.Duration `yaml:"expiry"` // Token lifetime.
}

// Config holds resolved application configuration values.
type Config struct {
	DatabaseDSN    string          `yaml:"database-dsn"`    // Store DSN; sqlite path or postgres URL.
	Port           int             `yaml:"port"`            // HTTP listen port.
	BotUsername    string          `yaml:"bot-username"`    // Bot handle used in deep links.
	LinkDomain     string          `yaml:"link-domain"`     // Transport domain for deep links.
	AdminID        int64           `yaml:"admin-id"`        // Administrator user id; 0 disables admin actions.
	PaymentDetails string          `yaml:"payment-details"` // Manual payment instructions shown to buyers.
	Plans          map[string]Plan `yaml:"plans"`           // Plan catalog keyed by plan id.
	JWT            JWTConfig       `yaml:"jwt"`             // Admin API token settings.
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file and applies env overrides and defaults.
// A missing file is not an error as long as a DSN arrives via environment.
func Load(configPath string) (Config, error) {
	cfg := defaults()

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", configPath, errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return Config{}, fmt.Errorf("config: read %s: %w", configPath, errRead)
	}

	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if handle := strings.TrimSpace(os.Getenv(EnvBotUsername)); handle != "" {
		cfg.BotUsername = handle
	}
	if rawID := strings.TrimSpace(os.Getenv(EnvAdminID)); rawID != "" {
		if id, errParse := strconv.ParseInt(rawID, 10, 64); errParse == nil {
			cfg.AdminID = id
		}
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.JWT.Secret = secret
	}
	if rawExpiry := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); rawExpiry != "" {
		if expiry, errParse := time.ParseDuration(rawExpiry); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}

	if len(cfg.Plans) == 0 {
		cfg.Plans = defaultPlans()
	}
	if strings.TrimSpace(cfg.LinkDomain) == "" {
		cfg.LinkDomain = defaultLinkDomain
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return Config{}, fmt.Errorf("config: missing database dsn (set `database-dsn` or env %s)", EnvDBConnection)
	}
	return cfg, nil
}

// PlanKeys returns the configured plan keys in sorted order.
func (c Config) PlanKeys() []string {
	keys := make([]string, 0, len(c.Plans))
	for key := range c.Plans {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

const (
	defaultLinkDomain = "t.me"
	defaultPort       = 8390
	defaultJWTExpiry  = 30 * 24 * time.Hour
)

func defaults() Config {
	return Config{
		Port:        defaultPort,
		BotUsername: "QR_FinderBot",
		LinkDomain:  defaultLinkDomain,
	}
}

// defaultPlans mirrors the launch package catalog; each package grants one
// code for the whole term.
func defaultPlans() map[string]Plan {
	return map[string]Plan{
		"month_1": {Label: "1 month", Price: 300, Days: 30},
		"month_3": {Label: "3 months", Price: 700, Days: 90},
		"month_6": {Label: "6 months", Price: 1200, Days: 180},
	}
}

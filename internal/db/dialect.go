package db

import (
	"strings"

	"gorm.io/gorm"
)

// Dialect identifiers supported by the database layer.
const (
	// DialectPostgres is the PostgreSQL dialect name.
	DialectPostgres = "postgres"
	// DialectSQLite is the SQLite dialect name.
	DialectSQLite = "sqlite"
)

// DialectName returns the active database dialect name.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection uses SQLite.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// IsPostgresDSN reports whether the DSN targets PostgreSQL.
func IsPostgresDSN(dsn string) bool {
	trimmed := strings.TrimSpace(strings.ToLower(dsn))
	return strings.HasPrefix(trimmed, "postgres://") ||
		strings.HasPrefix(trimmed, "postgresql://") ||
		strings.Contains(trimmed, "host=")
}

package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteBusyTimeoutMillis bounds how long a writer waits on a locked database
// before the driver reports a busy error instead of hanging.
const sqliteBusyTimeoutMillis = 5000

// Open connects to the database selected by the DSN and returns a gorm handle.
//
// SQLite connections run in WAL journaling mode with a bounded busy timeout so
// concurrent readers proceed alongside a single writer.
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("db: empty dsn")
	}

	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	if IsPostgresDSN(dsn) {
		conn, errOpen := gorm.Open(postgres.Open(dsn), cfg)
		if errOpen != nil {
			return nil, fmt.Errorf("db: open postgres: %w", errOpen)
		}
		return conn, nil
	}

	conn, errOpen := gorm.Open(sqlite.Open(sqliteDSN(dsn)), cfg)
	if errOpen != nil {
		return nil, fmt.Errorf("db: open sqlite: %w", errOpen)
	}
	// A single writer connection sidesteps busy-snapshot failures when a
	// read-then-write transaction races another writer.
	if sqlDB, errDB := conn.DB(); errDB == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}

// sqliteDSN appends journal and busy-timeout pragmas unless the DSN already
// carries its own pragma set.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf(
		"%s%s_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		dsn, sep, sqliteBusyTimeoutMillis,
	)
}

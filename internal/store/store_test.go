package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zh1gn/FoundItBot/internal/db"
)

// newTestStore opens a fresh migrated database in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "foundit-test.db")
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return New(conn)
}

func mustCreateUser(t *testing.T, st *Store, id int64) {
	t.Helper()
	if _, errCreate := st.CreateUser(context.Background(), id, "handle", "Test User"); errCreate != nil {
		t.Fatalf("create user %d: %v", id, errCreate)
	}
}

func mustSubscribe(t *testing.T, st *Store, userID int64, plan string, days int) {
	t.Helper()
	if _, errCreate := st.CreateSubscription(context.Background(), userID, plan, days); errCreate != nil {
		t.Fatalf("create subscription for %d: %v", userID, errCreate)
	}
}

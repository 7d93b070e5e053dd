package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"grantguard/internal/config"
	"grantguard/internal/db"
)

// OpenSQLite opens a fresh SQLite database file under t.TempDir and applies the schema.
// The handle is closed through t.Cleanup.
func OpenSQLite(t *testing.T, name string) *gorm.DB {
	t.Helper()
	gdb := OpenBareSQLite(t, name)
	if err := db.Migrate(context.Background(), gdb); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return gdb
}

// OpenBareSQLite opens a fresh SQLite database without applying any schema.
func OpenBareSQLite(t *testing.T, name string) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.DBConfig{
		Driver: config.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), name+".db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

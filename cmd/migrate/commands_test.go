package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantguard/internal/config"
	"grantguard/internal/db"
)

// seedSQLite creates a schema-initialized SQLite file with one user and one award
func seedSQLite(t *testing.T, path string) {
	t.Helper()
	gdb, err := db.Open(config.DBConfig{Driver: config.DriverSQLite, Name: path})
	require.NoError(t, err)
	defer db.Close(gdb)
	require.NoError(t, db.Migrate(context.Background(), gdb))
	require.NoError(t, gdb.Exec("INSERT INTO users (user_id, name, email, password) VALUES (41, 'Ada', 'ada@uni.edu', 'h')").Error)
	require.NoError(t, gdb.Exec(`INSERT INTO awards (created_by_email, title, sponsor_type, amount, start_date, end_date, pi_id)
		VALUES ('ada@uni.edu', 'Engines', 'Federal', 10, '2025-01-01', '2026-01-01', 41)`).Error)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{
		"SOURCE_DATABASE_URL", "SOURCE_DB_DRIVER", "DEST_DATABASE_URL", "DEST_DB_DRIVER",
	} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCopyCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	seedSQLite(t, src)

	out, err := run(t, "copy", "--source-url", "sqlite://"+src, "--dest-url", "sqlite://"+dst)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Migrated 2 rows total")
	assert.Contains(t, out, "budget_lines")

	// A second run with --clear replaces rather than duplicates
	out, err = run(t, "copy", "--clear", "--source-url", "sqlite://"+src, "--dest-url", "sqlite://"+dst)
	require.NoError(t, err, out)

	gdb, err := db.Open(config.DBConfig{Driver: config.DriverSQLite, Name: dst})
	require.NoError(t, err)
	defer db.Close(gdb)
	var users int64
	require.NoError(t, gdb.Table("users").Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestSchemaCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dst.db")
	_, err := run(t, "schema", "--dest-url", "sqlite://"+dst)
	require.NoError(t, err)
	// Applying twice is fine
	_, err = run(t, "schema", "--dest-url", "sqlite://"+dst)
	require.NoError(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	seedSQLite(t, src)
	outDir := filepath.Join(dir, "csv")

	out, err := run(t, "export", "--source-url", "sqlite://"+src, "--out", outDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 2 rows total")
	assert.FileExists(t, filepath.Join(outDir, "users.csv"))
	assert.FileExists(t, filepath.Join(outDir, "awards.csv"))
	_, err = os.Stat(filepath.Join(outDir, "policies.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestUnknownDriverIsFatal(t *testing.T) {
	_, err := run(t, "schema", "--dest-driver", "oracle")
	assert.Error(t, err)
}

func TestConnFlagsDefaults(t *testing.T) {
	t.Setenv("DEST_DATABASE_URL", "")
	t.Setenv("DEST_DB_DRIVER", "")
	assert.Equal(t, config.DriverPostgres, connFlags{}.load("DEST_", config.DriverPostgres).Driver)

	t.Setenv("DEST_DB_DRIVER", "mysql")
	assert.Equal(t, config.DriverMySQL, connFlags{}.load("DEST_", config.DriverPostgres).Driver)

	got := connFlags{url: "sqlite:///tmp/x.db"}.load("DEST_", config.DriverPostgres)
	assert.Equal(t, config.DriverSQLite, got.Driver)
	assert.Equal(t, "sqlite:///tmp/x.db", got.URL)
}

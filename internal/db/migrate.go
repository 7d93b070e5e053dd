package db

import (
	"context" // Context for schema statements
	"embed"   // Embedded schema scripts
	"fmt"     // Error wrapping
	"strings" // Statement splitting

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the schema script for a GORM dialect name (mysql, postgres, sqlite)
func Schema(dialect string) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + dialect + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}
	return string(b), nil
}

// Migrate applies the dialect's schema script one statement at a time.
// Statements that fail because the object already exists count as applied.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	dialect := gdb.Dialector.Name() // mysql, postgres or sqlite
	script, err := Schema(dialect)
	if err != nil {
		return err
	}
	applied, existing := 0, 0
	for _, stmt := range Statements(script) {
		if err := gdb.WithContext(ctx).Exec(stmt).Error; err != nil {
			if IsAlreadyExists(err) {
				existing++
				continue
			}
			return fmt.Errorf("apply schema: %w", err)
		}
		applied++
	}
	logrus.WithFields(logrus.Fields{
		"dialect":  dialect,  // Target dialect
		"applied":  applied,  // Statements executed
		"existing": existing, // Statements skipped as already present
	}).Info("Schema initialized")
	return nil
}

// Statements splits a script on semicolons, dropping comment lines and blanks
func Statements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// IsAlreadyExists reports whether err is a duplicate-object error from any supported dialect
func IsAlreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}

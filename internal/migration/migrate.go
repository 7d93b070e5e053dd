package migration

import (
	"context" // Cancellation for long copies
	"fmt"     // Error wrapping
	"strconv" // Key conversion
	"strings" // SQL assembly

	"grantguard/internal/db" // Schema scripts

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// KeyMap translates source primary keys to the keys the destination assigned
type KeyMap map[int64]int64

// Result is the outcome of copying one table
type Result struct {
	Table   string
	Rows    int   // Rows inserted, zero when the table failed
	Skipped bool  // Source table was empty
	Err     error // Why the table was rolled back
}

// Report summarizes a run
type Report struct {
	Results []Result
	Total   int // Rows from tables that fully succeeded
}

// Failed returns the tables that were rolled back
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Migrator copies a schema's tables from one database to another, renumbering
// primary keys and rewriting foreign keys to match.
type Migrator struct {
	src    *gorm.DB
	dst    *gorm.DB
	schema Schema
}

// New returns a Migrator for schema
func New(src, dst *gorm.DB, schema Schema) *Migrator {
	return &Migrator{src: src, dst: dst, schema: schema}
}

// InitSchema applies the destination dialect's schema script
func (m *Migrator) InitSchema(ctx context.Context) error {
	return db.Migrate(ctx, m.dst)
}

// Clear deletes every destination table children first
func (m *Migrator) Clear(ctx context.Context) error {
	return ClearTables(ctx, m.dst, m.schema)
}

// Run copies every table in order. A failing table is rolled back and reported; the
// run moves on. The returned error is only for an invalid schema or a cancelled context.
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	var report Report
	if err := m.schema.Validate(); err != nil {
		return report, err
	}
	keys := make(map[string]KeyMap, len(m.schema)) // Table name -> key map
	for _, t := range m.schema {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, km := m.copyTable(ctx, t, keys)
		report.Results = append(report.Results, res)
		entry := logrus.WithFields(logrus.Fields{
			"table": t.Name,   // Table being copied
			"rows":  res.Rows, // Rows inserted
		})
		switch {
		case res.Err != nil:
			entry.WithField("error", res.Err.Error()).Error("Table rolled back")
		case res.Skipped:
			entry.Info("Table empty, skipped")
		default:
			keys[t.Name] = km
			report.Total += res.Rows
			entry.Info("Table migrated")
		}
	}
	logrus.WithFields(logrus.Fields{
		"tables": len(report.Results),  // Tables attempted
		"failed": len(report.Failed()), // Tables rolled back
		"total":  report.Total,         // Rows migrated
	}).Info("Migration finished")
	return report, nil
}

func (m *Migrator) copyTable(ctx context.Context, t Table, keys map[string]KeyMap) (Result, KeyMap) {
	res := Result{Table: t.Name}
	rows, err := readRows(ctx, m.src, t)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", t.Name, err)
		return res, nil
	}
	if len(rows) == 0 {
		res.Skipped = true
		return res, nil
	}

	km := make(KeyMap, len(rows))
	ins := newInserter(m.dst, t)
	err = m.dst.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range rows {
			oldKey, ok := asInt64(row[0])
			if !ok {
				return fmt.Errorf("row %d: primary key %v is not an integer", i+1, row[0])
			}
			values := m.remap(t, row[1:], keys, oldKey)
			newKey, err := ins.insert(tx, values)
			if err != nil {
				return fmt.Errorf("row %d (%s=%d): %w", i+1, t.PrimaryKey, oldKey, err)
			}
			km[oldKey] = newKey
		}
		return nil
	})
	if err != nil {
		res.Err = err
		return res, nil
	}
	res.Rows = len(rows)
	return res, km
}

// remap rewrites foreign-key values through their parent's key map. NULL stays NULL;
// a key the parent never produced becomes NULL.
func (m *Migrator) remap(t Table, values []any, keys map[string]KeyMap, rowKey int64) []any {
	out := make([]any, len(values))
	copy(out, values)
	for i, col := range t.Columns {
		parent, isFK := t.ForeignKeys[col]
		if !isFK || out[i] == nil {
			continue
		}
		old, ok := asInt64(out[i])
		if newKey, found := keys[parent][old]; ok && found {
			out[i] = newKey
			continue
		}
		logrus.WithFields(logrus.Fields{
			"table":  t.Name, // Child table
			"row":    rowKey, // Source primary key
			"column": col,    // Foreign key column
			"parent": parent, // Referenced table
			"value":  out[i], // Unresolved source key
		}).Warn("Foreign key has no migrated parent, storing NULL")
		out[i] = nil
	}
	return out
}

// readRows loads a whole table, primary key first, ordered by primary key
func readRows(ctx context.Context, gdb *gorm.DB, t Table) ([][]any, error) {
	cols := make([]string, 0, len(t.Columns)+1)
	for _, c := range append([]string{t.PrimaryKey}, t.Columns...) {
		cols = append(cols, quote(gdb, c))
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "), quote(gdb, t.Name), quote(gdb, t.PrimaryKey))

	rows, err := gdb.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b) // MySQL returns text as bytes
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// inserter writes one row and returns the key the destination assigned
type inserter struct {
	sql       string
	returning bool // RETURNING clause, otherwise LAST_INSERT_ID()
}

func newInserter(gdb *gorm.DB, t Table) inserter {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(gdb, c)
		marks[i] = "?"
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(gdb, t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if gdb.Dialector.Name() == "mysql" {
		return inserter{sql: sql}
	}
	return inserter{sql: sql + " RETURNING " + quote(gdb, t.PrimaryKey), returning: true}
}

func (ins inserter) insert(tx *gorm.DB, values []any) (int64, error) {
	var id int64
	if ins.returning {
		err := tx.Raw(ins.sql, values...).Row().Scan(&id)
		return id, err
	}
	if err := tx.Exec(ins.sql, values...).Error; err != nil {
		return 0, err
	}
	err := tx.Raw("SELECT LAST_INSERT_ID()").Row().Scan(&id)
	return id, err
}

// ClearTables deletes all rows from every table in reverse dependency order, in one
// transaction.
func ClearTables(ctx context.Context, gdb *gorm.DB, schema Schema) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range schema.Reversed() {
			if err := tx.Exec("DELETE FROM " + quote(tx, t.Name)).Error; err != nil {
				return fmt.Errorf("clear %s: %w", t.Name, err)
			}
			logrus.WithField("table", t.Name).Debug("Table cleared")
		}
		return nil
	})
}

func quote(gdb *gorm.DB, name string) string {
	return gdb.Statement.Quote(name)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), n == float64(int64(n))
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

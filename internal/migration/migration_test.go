package migration

import (
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"grantguard/internal/db"
	"grantguard/internal/testutil"
)

func exec(t *testing.T, gdb *gorm.DB, query string, args ...any) {
	t.Helper()
	require.NoError(t, gdb.Exec(query, args...).Error, query)
}

func count(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Table(table).Count(&n).Error)
	return n
}

// seedSource fills a source database whose keys are deliberately sparse
func seedSource(t *testing.T, src *gorm.DB) {
	t.Helper()
	const ts = "2025-01-02 03:04:05"
	for _, u := range []struct {
		id          int
		name, email string
	}{
		{10, "Ada Lovelace", "ada@uni.edu"},
		{20, "Grace Hopper", "grace@uni.edu"},
		{30, "Alan Turing", "alan@uni.edu"},
	} {
		exec(t, src, "INSERT INTO users (user_id, name, email, role, password, created_at) VALUES (?, ?, ?, 'PI', 'hash', ?)",
			u.id, u.name, u.email, ts)
	}
	exec(t, src, "INSERT INTO policies (policy_id, policy_level, source_name, policy_text) VALUES (5, 'University', 'Handbook', 'Cost share')")
	for _, a := range []struct {
		id    int
		title string
		email string
		pi    any
	}{
		{100, "Compilers", "grace@uni.edu", 20},
		{200, "Computability", "alan@uni.edu", 30},
		{300, "Unowned", "nobody@uni.edu", nil},
	} {
		exec(t, src, `INSERT INTO awards (award_id, created_by_email, title, sponsor_type, amount, start_date, end_date, status, created_at, pi_id)
			VALUES (?, ?, ?, 'Federal', 1000, '2025-01-01', '2026-01-01', 'Pending', ?, ?)`, a.id, a.email, a.title, ts, a.pi)
	}
	exec(t, src, "INSERT INTO transactions (transaction_id, award_id, user_id, category, description, amount, date_submitted, status) VALUES (7, 200, 10, 'Travel', 'Conference', 120.5, ?, 'Pending')", ts)
	exec(t, src, "INSERT INTO llm_responses (response_id, transaction_id, llm_decision, reason, timestamp) VALUES (9, 7, 'Approve', 'Allowable', ?)", ts)
}

func resultFor(t *testing.T, r Report, table string) Result {
	t.Helper()
	for _, res := range r.Results {
		if res.Table == table {
			return res
		}
	}
	t.Fatalf("no result for %s", table)
	return Result{}
}

func TestRun_PreservesReferencesAcrossRenumbering(t *testing.T) {
	src := testutil.OpenSQLite(t, "src")
	dst := testutil.OpenSQLite(t, "dst")
	seedSource(t, src)
	// An existing row forces the destination to hand out different keys
	exec(t, dst, "INSERT INTO users (name, email, role, password) VALUES ('Root', 'root@dest.edu', 'Admin', 'x')")

	report, err := New(src, dst, GrantGuard).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, len(GrantGuard))
	assert.Empty(t, report.Failed())
	assert.True(t, resultFor(t, report, "budget_lines").Skipped)
	assert.Equal(t, 3, resultFor(t, report, "awards").Rows)
	assert.Equal(t, 9, report.Total)

	var adaID int64
	require.NoError(t, dst.Raw("SELECT user_id FROM users WHERE email = 'ada@uni.edu'").Row().Scan(&adaID))
	assert.NotEqual(t, int64(10), adaID, "keys are assigned by the destination")

	owners := map[string]sql.NullString{}
	rows, err := dst.Raw("SELECT a.title, u.email FROM awards a LEFT JOIN users u ON u.user_id = a.pi_id").Rows()
	require.NoError(t, err)
	for rows.Next() {
		var title string
		var email sql.NullString
		require.NoError(t, rows.Scan(&title, &email))
		owners[title] = email
	}
	require.NoError(t, rows.Close())
	assert.Equal(t, "grace@uni.edu", owners["Compilers"].String)
	assert.Equal(t, "alan@uni.edu", owners["Computability"].String)
	assert.False(t, owners["Unowned"].Valid, "NULL foreign keys stay NULL")

	var awardTitle, submitter string
	require.NoError(t, dst.Raw(`SELECT a.title, u.email FROM transactions t
		JOIN awards a ON a.award_id = t.award_id
		JOIN users u ON u.user_id = t.user_id`).Row().Scan(&awardTitle, &submitter))
	assert.Equal(t, "Computability", awardTitle)
	assert.Equal(t, "ada@uni.edu", submitter)

	var category, decision string
	require.NoError(t, dst.Raw(`SELECT t.category, r.llm_decision FROM llm_responses r
		JOIN transactions t ON t.transaction_id = r.transaction_id`).Row().Scan(&category, &decision))
	assert.Equal(t, "Travel", category)
	assert.Equal(t, "Approve", decision)
}

func TestRun_EmptySource(t *testing.T) {
	src := testutil.OpenSQLite(t, "src")
	dst := testutil.OpenBareSQLite(t, "dst")

	m := New(src, dst, GrantGuard)
	require.NoError(t, m.InitSchema(context.Background()))
	report, err := m.Run(context.Background())
	require.NoError(t, err)

	for _, res := range report.Results {
		assert.True(t, res.Skipped, res.Table)
		assert.NoError(t, res.Err, res.Table)
	}
	assert.Zero(t, report.Total)
	assert.Zero(t, count(t, dst, "users"))
}

func TestRun_RowFailureRollsBackOnlyThatTable(t *testing.T) {
	src := testutil.OpenBareSQLite(t, "src")
	// No UNIQUE on email here, so the source can hold a row the destination rejects
	exec(t, src, `CREATE TABLE users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, email TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'PI', password TEXT NOT NULL, created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP)`)
	require.NoError(t, db.Migrate(context.Background(), src))
	for i := 1; i <= 10; i++ {
		email := "user" + string(rune('a'+i)) + "@uni.edu"
		if i == 5 {
			email = "userb@uni.edu" // Same as row 1
		}
		exec(t, src, "INSERT INTO users (user_id, name, email, password) VALUES (?, 'U', ?, 'h')", i, email)
	}
	exec(t, src, "INSERT INTO policies (policy_level, source_name, policy_text) VALUES ('University', 'Handbook', 'x')")
	exec(t, src, `INSERT INTO awards (created_by_email, title, sponsor_type, amount, start_date, end_date, pi_id)
		VALUES ('userb@uni.edu', 'Orphaned', 'Federal', 10, '2025-01-01', '2026-01-01', 1)`)

	dst := testutil.OpenSQLite(t, "dst")
	report, err := New(src, dst, GrantGuard).Run(context.Background())
	require.NoError(t, err, "a table failure does not abort the run")

	users := resultFor(t, report, "users")
	require.Error(t, users.Err)
	assert.Contains(t, users.Err.Error(), "row 5")
	assert.Zero(t, users.Rows)
	assert.Zero(t, count(t, dst, "users"), "rows 1-4 are rolled back")

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, 1, resultFor(t, report, "policies").Rows)
	assert.Equal(t, 1, resultFor(t, report, "awards").Rows)
	assert.Equal(t, 2, report.Total, "only tables that fully succeeded count")

	var pi sql.NullInt64
	require.NoError(t, dst.Raw("SELECT pi_id FROM awards").Row().Scan(&pi))
	assert.False(t, pi.Valid, "a parent that was rolled back leaves the reference NULL")
}

func TestRun_MissingSourceTableIsReported(t *testing.T) {
	src := testutil.OpenBareSQLite(t, "src")
	exec(t, src, "CREATE TABLE policies (policy_id INTEGER PRIMARY KEY, policy_level TEXT, source_name TEXT, policy_text TEXT)")
	exec(t, src, "INSERT INTO policies VALUES (1, 'University', 'Handbook', 'x')")
	dst := testutil.OpenSQLite(t, "dst")

	report, err := New(src, dst, GrantGuard).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Failed(), len(GrantGuard)-1)
	assert.Equal(t, 1, report.Total)
}

func TestRun_RejectsInvalidSchema(t *testing.T) {
	src := testutil.OpenSQLite(t, "src")
	dst := testutil.OpenSQLite(t, "dst")
	bad := Schema{GrantGuard[2], GrantGuard[0]} // awards before users
	_, err := New(src, dst, bad).Run(context.Background())
	assert.Error(t, err)
}

func TestClearTables(t *testing.T) {
	src := testutil.OpenSQLite(t, "src")
	dst := testutil.OpenSQLite(t, "dst")
	seedSource(t, src)
	m := New(src, dst, GrantGuard)
	_, err := m.Run(context.Background())
	require.NoError(t, err)
	require.NotZero(t, count(t, dst, "awards"))

	require.NoError(t, m.Clear(context.Background()))
	for _, table := range GrantGuard {
		assert.Zero(t, count(t, dst, table.Name), table.Name)
	}

	// Clearing then reloading gives the same row counts
	report, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, report.Total)
	assert.Equal(t, int64(3), count(t, dst, "users"))
}

func TestSchema_Validate(t *testing.T) {
	require.NoError(t, GrantGuard.Validate())

	cases := map[string]Schema{
		"child before parent": {GrantGuard[0], GrantGuard[3], GrantGuard[2]},
		"fk not copied": {{
			Name: "awards", PrimaryKey: "award_id", Columns: []string{"title"},
			ForeignKeys: map[string]string{"pi_id": "users"},
		}},
		"duplicate table": {GrantGuard[0], GrantGuard[0]},
		"no primary key":  {{Name: "users", Columns: []string{"email"}}},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Validate())
		})
	}
}

func TestSchema_Reversed(t *testing.T) {
	rev := GrantGuard.Reversed()
	require.Len(t, rev, len(GrantGuard))
	assert.Equal(t, "llm_responses", rev[0].Name)
	assert.Equal(t, "users", rev[len(rev)-1].Name)
	assert.Equal(t, "users", GrantGuard[0].Name, "original order untouched")
}

func TestExport(t *testing.T) {
	src := testutil.OpenSQLite(t, "src")
	seedSource(t, src)
	dir := filepath.Join(t.TempDir(), "out")

	report, err := Export(context.Background(), src, GrantGuard, dir)
	require.NoError(t, err)
	assert.Empty(t, report.Failed())
	assert.Equal(t, 9, report.Total)

	f, err := os.Open(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"user_id", "name", "email", "role", "password", "created_at"}, records[0])
	assert.Equal(t, []string{"10", "Ada Lovelace", "ada@uni.edu", "PI", "hash", "2025-01-02 03:04:05"}, records[1])

	_, err = os.Stat(filepath.Join(dir, "budget_lines.csv"))
	assert.True(t, os.IsNotExist(err), "empty tables produce no file")
}

func TestDefaultExportDir(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "export_20250304_050607", DefaultExportDir(at))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "120.5", formatValue(120.5))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "abc", formatValue([]byte("abc")))
	assert.Equal(t, "2025-01-02 03:04:05", formatValue(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestAsInt64(t *testing.T) {
	for _, v := range []any{int64(7), int32(7), 7, uint64(7), float64(7), "7", []byte("7")} {
		n, ok := asInt64(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, int64(7), n)
	}
	_, ok := asInt64(7.5)
	assert.False(t, ok)
	_, ok = asInt64(nil)
	assert.False(t, ok)
}

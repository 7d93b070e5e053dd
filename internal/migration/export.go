package migration

import (
	"context"       // Cancellation
	"encoding/csv"  // CSV writer
	"fmt"           // Error wrapping
	"os"            // Output files
	"path/filepath" // Output paths
	"strconv"       // Number formatting
	"time"          // Timestamp formatting

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

const exportTimeLayout = "2006-01-02 15:04:05"

// Export writes each table of schema to <dir>/<table>.csv with a header row. Empty tables
// produce no file. A table that cannot be read or written is reported and skipped.
func Export(ctx context.Context, gdb *gorm.DB, schema Schema, dir string) (Report, error) {
	var report Report
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("create export dir: %w", err)
	}
	for _, t := range schema {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := exportTable(ctx, gdb, t, dir)
		report.Results = append(report.Results, res)
		entry := logrus.WithFields(logrus.Fields{
			"table": t.Name,   // Table exported
			"rows":  res.Rows, // Rows written
		})
		switch {
		case res.Err != nil:
			entry.WithField("error", res.Err.Error()).Error("Export failed")
		case res.Skipped:
			entry.Info("Table empty, no file written")
		default:
			report.Total += res.Rows
			entry.Info("Table exported")
		}
	}
	return report, nil
}

// DefaultExportDir names a timestamped directory for an export run
func DefaultExportDir(now time.Time) string {
	return "export_" + now.Format("20060102_150405")
}

func exportTable(ctx context.Context, gdb *gorm.DB, t Table, dir string) Result {
	res := Result{Table: t.Name}
	rows, err := readRows(ctx, gdb, t)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", t.Name, err)
		return res
	}
	if len(rows) == 0 {
		res.Skipped = true
		return res
	}
	if err := writeCSV(filepath.Join(dir, t.Name+".csv"), t, rows); err != nil {
		res.Err = fmt.Errorf("write %s: %w", t.Name, err)
		return res
	}
	res.Rows = len(rows)
	return res
}

func writeCSV(path string, t Table, rows [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{t.PrimaryKey}, t.Columns...)); err != nil {
		return err
	}
	record := make([]string, len(t.Columns)+1)
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(exportTimeLayout)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

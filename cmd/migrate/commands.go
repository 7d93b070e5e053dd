package main

import (
	"fmt"  // Report output
	"io"   // Report writer
	"os"   // Environment lookup
	"time" // Export directory naming

	"grantguard/internal/config"    // Database configuration
	"grantguard/internal/db"        // Connections and schema
	"grantguard/internal/migration" // Cross-database copy

	"github.com/sirupsen/logrus" // Structured logging
	"github.com/spf13/cobra"     // CLI framework
	"gorm.io/gorm"               // GORM ORM library
)

// connFlags override the SOURCE_ / DEST_ environment for one side of the copy
type connFlags struct {
	driver string
	url    string
}

func (f connFlags) load(prefix, defaultDriver string) config.DBConfig {
	cfg := config.LoadDBConfig(prefix)
	if f.url != "" {
		cfg.URL = f.url
		cfg.Driver = config.DriverFromURL(f.url)
	} else if cfg.URL == "" && os.Getenv(prefix+"DB_DRIVER") == "" {
		cfg.Driver = defaultDriver
	}
	if f.driver != "" {
		cfg.Driver = f.driver
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	var (
		src     connFlags
		dst     connFlags
		verbose bool
	)

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Copy GrantGuard data between databases",
		Long: `Copy the GrantGuard tables from a source database to a destination database.

Primary keys are reassigned by the destination and every foreign key is rewritten to
the new keys. Connections come from SOURCE_DATABASE_URL / DEST_DATABASE_URL or the
SOURCE_DB_* / DEST_DB_* variables, unless overridden by flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&src.url, "source-url", "", "Source connection URL (default: SOURCE_DATABASE_URL)")
	root.PersistentFlags().StringVar(&src.driver, "source-driver", "", "Source driver: mysql, postgres or sqlite")
	root.PersistentFlags().StringVar(&dst.url, "dest-url", "", "Destination connection URL (default: DEST_DATABASE_URL)")
	root.PersistentFlags().StringVar(&dst.driver, "dest-driver", "", "Destination driver: mysql, postgres or sqlite")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	openSource := func() (*gorm.DB, error) { return open("source", src.load("SOURCE_", config.DriverMySQL)) }
	openDest := func() (*gorm.DB, error) { return open("destination", dst.load("DEST_", config.DriverPostgres)) }

	root.AddCommand(
		newSchemaCmd(openDest),
		newCopyCmd(openSource, openDest),
		newExportCmd(openSource),
	)
	return root
}

type opener func() (*gorm.DB, error)

func newSchemaCmd(openDest opener) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Apply the schema to the destination database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := openDest()
			if err != nil {
				return err
			}
			defer db.Close(dst)
			return db.Migrate(cmd.Context(), dst)
		},
	}
}

func newCopyCmd(openSource, openDest opener) *cobra.Command {
	var clearFirst, skipSchema bool
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy every table from source to destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource()
			if err != nil {
				return err
			}
			defer db.Close(src)
			dst, err := openDest()
			if err != nil {
				return err
			}
			defer db.Close(dst)

			m := migration.New(src, dst, migration.GrantGuard)
			ctx := cmd.Context()
			if !skipSchema {
				if err := m.InitSchema(ctx); err != nil {
					return err
				}
			}
			if clearFirst {
				if err := m.Clear(ctx); err != nil {
					logrus.WithField("error", err.Error()).Error("Clearing destination failed, continuing")
				}
			}
			report, err := m.Run(ctx)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), "Migrated", report)
			if failed := report.Failed(); len(failed) > 0 {
				return fmt.Errorf("%d of %d tables rolled back", len(failed), len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Delete destination rows before copying")
	cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "Do not apply the schema before copying")
	return cmd
}

func newExportCmd(openSource opener) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every source table to CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource()
			if err != nil {
				return err
			}
			defer db.Close(src)
			if out == "" {
				out = migration.DefaultExportDir(time.Now())
			}
			report, err := migration.Export(cmd.Context(), src, migration.GrantGuard, out)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), "Exported", report)
			fmt.Fprintf(cmd.OutOrStdout(), "Files written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: export_<timestamp>)")
	return cmd
}

// open connects and pings; a failure here ends the run
func open(side string, cfg config.DBConfig) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s database: %w", side, err)
	}
	gdb, err := db.Open(cfg) // Open pings the database
	if err != nil {
		return nil, fmt.Errorf("%s database: %w", side, err)
	}
	logrus.WithFields(logrus.Fields{
		"side":   side,       // source or destination
		"driver": cfg.Driver, // Database driver
	}).Info("Connected")
	return gdb, nil
}

func printReport(w io.Writer, verb string, r migration.Report) {
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(w, "  %-15s FAILED  %v\n", res.Table, res.Err)
		case res.Skipped:
			fmt.Fprintf(w, "  %-15s empty\n", res.Table)
		default:
			fmt.Fprintf(w, "  %-15s %d rows\n", res.Table, res.Rows)
		}
	}
	fmt.Fprintf(w, "%s %d rows total\n", verb, r.Total)
}

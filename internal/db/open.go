package db

import (
	"fmt"     // Error wrapping
	"net"     // Host/port joining
	"net/url" // Connection URL parsing
	"strings" // String manipulation

	"grantguard/internal/config" // Database configuration

	mysqldrv "github.com/go-sql-driver/mysql" // MySQL DSN builder
	"github.com/jackc/pgx/v5"                 // PostgreSQL connection config parser
	"github.com/jackc/pgx/v5/stdlib"          // database/sql adapter for pgx
	"gorm.io/driver/mysql"                    // MySQL driver for GORM
	"gorm.io/driver/postgres"                 // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"                   // SQLite driver for GORM
	"gorm.io/gorm"                            // GORM ORM library
)

// Open connects to the configured database and verifies the connection
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := NewDialector(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{}) // Open pings the database
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	return gdb, nil
}

// Close releases the pool behind a GORM handle
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDialector builds the GORM dialector for the configured driver
func NewDialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		dsn, err := MySQLDSN(cfg)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		connCfg, err := pgx.ParseConfig(PostgresDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connCfg)}), nil
	case config.DriverSQLite:
		path := strings.TrimPrefix(cfg.URL, "sqlite://")
		if path == "" {
			path = cfg.Name
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// MySQLDSN renders a go-sql-driver DSN from either a mysql:// URL, a raw DSN or the
// individual fields. parseTime is always on so DATE and DATETIME scan into time.Time.
func MySQLDSN(cfg config.DBConfig) (string, error) {
	if cfg.URL != "" && !strings.Contains(cfg.URL, "://") {
		parsed, err := mysqldrv.ParseDSN(cfg.URL)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		parsed.ParseTime = true
		return parsed.FormatDSN(), nil
	}

	c := mysqldrv.NewConfig()
	c.Net = "tcp"
	c.ParseTime = true
	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return "", fmt.Errorf("parse mysql url: %w", err)
		}
		c.User = u.User.Username()
		c.Passwd, _ = u.User.Password()
		c.Addr = u.Host
		if u.Port() == "" {
			c.Addr = net.JoinHostPort(u.Hostname(), "3306")
		}
		c.DBName = strings.TrimPrefix(u.Path, "/")
		if q := u.Query(); len(q) > 0 {
			c.Params = make(map[string]string, len(q))
			for k := range q {
				c.Params[k] = q.Get(k)
			}
		}
		return c.FormatDSN(), nil
	}
	port := cfg.Port
	if port == "" {
		port = "3306"
	}
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Addr = net.JoinHostPort(cfg.Host, port)
	c.DBName = cfg.Name
	return c.FormatDSN(), nil
}

// PostgresDSN returns the configured URL or assembles one from the individual fields
func PostgresDSN(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, port),
		Path:   "/" + cfg.Name,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

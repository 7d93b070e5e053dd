package config

import (
	"fmt"     // For validation errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For scheme detection
	"time"    // For session lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported session stores
const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
	SessionStoreCookie = "cookie"
)

// Config holds the application configuration
type Config struct {
	AppPort    string        // Application port
	IsProd     bool          // Is production environment
	LogLevel   string        // Logrus level name
	DB         DBConfig      // Application database
	InitSchema bool          // Apply the schema script at startup
	Session    SessionConfig // Session store settings
	RedisAddr  string        // Redis server address
	RedisPass  string        // Redis password
	RedisDB    int           // Redis database number
	HTTP       HTTPConfig    // Browser-facing HTTP settings
}

// HTTPConfig holds cross-origin and abuse settings for the web server
type HTTPConfig struct {
	CORSOrigins []string // Origins allowed to call the API with credentials
	LoginRate   float64  // Login and signup attempts per second per client IP
	LoginBurst  int      // Attempts allowed at once, 0 disables limiting
}

// DBConfig describes one database connection
type DBConfig struct {
	Driver       string // mysql, postgres or sqlite
	URL          string // Full connection URL, wins over the individual fields
	Host         string // Database host
	Port         string // Database port
	User         string // Database user
	Password     string // Database password
	Name         string // Database name (file path for sqlite)
	MaxOpenConns int    // Pool size cap, 0 means driver default
}

// SessionConfig holds session store settings
type SessionConfig struct {
	Store      string        // redis, memory or cookie
	Secret     string        // Signing secret for the cookie store
	TTL        time.Duration // Session lifetime
	CookieName string        // Name of the session cookie
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort:    getEnv("APP_PORT", "8000"),             // Application port
		IsProd:     os.Getenv("IS_PROD") == "true",         // Is production environment
		LogLevel:   getEnv("LOG_LEVEL", "info"),            // Log level
		DB:         LoadDBConfig(""),                       // Application database
		InitSchema: os.Getenv("DB_INIT_SCHEMA") == "true",  // Schema bootstrap
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"), // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),                // Redis password
		RedisDB:    getEnvAsInt("REDIS_DB", 0),             // Redis database number
		HTTP: HTTPConfig{
			CORSOrigins: getEnvAsList("CORS_ORIGINS"),
			LoginRate:   getEnvAsFloat("LOGIN_RATE", 0.2),
			LoginBurst:  getEnvAsInt("LOGIN_BURST", 10),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", SessionStoreRedis),
			Secret:     os.Getenv("SESSION_SECRET"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "grantguard_session"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDBConfig reads a database configuration whose variables carry the given prefix,
// e.g. "SOURCE_" reads SOURCE_DATABASE_URL, SOURCE_DB_HOST and so on.
func LoadDBConfig(prefix string) DBConfig {
	_ = godotenv.Load()
	c := DBConfig{
		Driver:       os.Getenv(prefix + "DB_DRIVER"),
		URL:          os.Getenv(prefix + "DATABASE_URL"),
		Host:         getEnv(prefix+"DB_HOST", "localhost"),
		Port:         os.Getenv(prefix + "DB_PORT"),
		User:         os.Getenv(prefix + "DB_USER"),
		Password:     os.Getenv(prefix + "DB_PASSWORD"),
		Name:         getEnv(prefix+"DB_NAME", "grantguard"),
		MaxOpenConns: getEnvAsInt(prefix+"DB_MAX_OPEN_CONNS", 0),
	}
	if c.Driver == "" {
		c.Driver = DriverFromURL(c.URL)
	}
	return c
}

// DriverFromURL guesses the driver from a connection URL scheme, defaulting to mysql
func DriverFromURL(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return DriverSQLite
	default:
		return DriverMySQL
	}
}

// Validate checks the values the server cannot start without
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if err := c.DB.Validate(); err != nil {
		return err
	}
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	case SessionStoreCookie:
		if c.Session.Secret == "" {
			return fmt.Errorf("SESSION_SECRET is required for the cookie session store")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Validate checks that the connection can be described
func (c DBConfig) Validate() error {
	switch c.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Driver)
	}
	if c.URL == "" && c.Name == "" {
		return fmt.Errorf("database name or URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"context"                        // context package is needed for Redis and schema operations
	"grantguard/internal/api"        // HTTP handlers and router
	"grantguard/internal/config"     // Custom package for configuration
	"grantguard/internal/db"         // Database connection and schema
	"grantguard/internal/repository" // GORM-backed stores
	"grantguard/internal/service"    // Business logic
	"grantguard/internal/session"    // Session stores

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/crypto/bcrypt"   // Password hashing cost
	"golang.org/x/time/rate"       // Login throttling
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DB)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	defer db.Close(gdb)
	sqlDB, err := gdb.DB()
	if err != nil {
		logrus.Fatalf("failed to get DB pool: %v", err)
	}

	if cfg.InitSchema {
		if err := db.Migrate(context.Background(), gdb); err != nil {
			logrus.WithField("error", err.Error()).Warn("Schema initialization failed")
		}
	}

	sessions := newSessionStore(cfg) // Session store chosen by SESSION_STORE

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Auth:     service.NewAuthService(repository.NewUserRepository(gdb), bcrypt.DefaultCost),
		Awards:   service.NewAwardService(repository.NewAwardRepository(gdb)),
		Policies: service.NewPolicyService(repository.NewPolicyRepository(gdb)),
		Sessions: sessions,
		DB:       sqlDB,

		CORSOrigins: cfg.HTTP.CORSOrigins,
		LoginRate:   rate.Limit(cfg.HTTP.LoginRate),
		LoginBurst:  cfg.HTTP.LoginBurst,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":     cfg.AppPort,       // Listen port
		"driver":   cfg.DB.Driver,     // Database driver
		"sessions": cfg.Session.Store, // Session store
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// newSessionStore builds the configured session store
func newSessionStore(cfg *config.Config) session.Store {
	opts := session.Options{
		CookieName: cfg.Session.CookieName, // Cookie name
		TTL:        cfg.Session.TTL,        // Session lifetime
		Secure:     cfg.IsProd,             // HTTPS-only cookies in production
	}
	switch cfg.Session.Store {
	case config.SessionStoreCookie:
		return session.NewCookieStore(cfg.Session.Secret, opts)
	case config.SessionStoreMemory:
		return session.NewServerStore(session.NewMemoryBackend(), opts)
	default:
		// Setup Redis client
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})

		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		return session.NewServerStore(session.NewRedisBackend(redisClient, ""), opts)
	}
}

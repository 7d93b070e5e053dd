package api

import (
	"grantguard/internal/middleware" // Session middleware
	"grantguard/internal/service"    // Business logic
	"grantguard/internal/session"    // Session stores
	"net/http"                       // HTTP methods
	"time"                           // CORS preflight cache

	"github.com/gin-contrib/cors" // Cross-origin requests
	"github.com/gin-gonic/gin"    // Gin web framework
	"golang.org/x/time/rate"      // Login throttling
)

// Deps are the collaborators the routes need
type Deps struct {
	Auth     *service.AuthService   // Signup and login
	Awards   *service.AwardService  // Award records
	Policies *service.PolicyService // Policy documents
	Sessions session.Store          // Session persistence
	DB       Pinger                 // Health checks

	CORSOrigins []string   // Browser origins allowed with credentials, none disables CORS
	LoginRate   rate.Limit // Login and signup refill rate per client IP
	LoginBurst  int        // Login and signup burst, 0 disables limiting
}

// NewRouter wires every route onto a fresh Gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default() // Gin router instance
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true, // Session cookie
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", HealthHandler(d.DB)) // Health endpoint

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.LoginBurst > 0 {
		throttle = middleware.RateLimit(d.LoginRate, d.LoginBurst)
	}

	app := r.Group("/")
	app.Use(middleware.LoadSession(d.Sessions)) // Every page can see the session

	app.GET("", HomeHandler())                                            // Login page
	app.POST("login", throttle, LoginHandler(d.Auth, d.Sessions))         // Login endpoint
	app.POST("signup", throttle, SignupHandler(d.Auth, d.Sessions))       // Signup endpoint
	app.GET("logout", LogoutHandler(d.Sessions))                          // Logout endpoint
	app.GET("dashboard", DashboardHandler(d.Awards))                      // Dashboard, guest view without session
	app.GET("policies/university", UniversityPoliciesHandler(d.Policies)) // Public policy list

	// Pages for logged-in users only; guests are sent back home
	member := app.Group("")
	member.Use(middleware.RequireUser())
	member.GET("awards/new", NewAwardHandler())         // Award form
	member.POST("awards", CreateAwardHandler(d.Awards)) // Create award endpoint
	member.GET("subawards", PageHandler("subawards"))   // Placeholder
	member.GET("settings", PageHandler("settings"))     // Placeholder
	member.GET("profile", PageHandler("profile"))       // Placeholder

	return r
}

package middleware

import (
	"grantguard/internal/session" // Session stores
	"net/http"                    // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

const sessionKey = "session" // Context key for the loaded session

// LoadSession loads the caller's session from store and stores it in the context
func LoadSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Load(c.Request) // Always returns a session, guest on failure
		if err != nil {
			// A broken session backend degrades to guest rather than failing the request
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route being served
				"error": err.Error(),  // Error message
			}).Warn("Session load failed")
		}
		c.Set(sessionKey, sess) // Store session in context
		c.Next()                // Proceed to the next handler
	}
}

// RequireUser redirects guests to the home page
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Session(c).Authenticated() {
			c.Redirect(http.StatusFound, "/") // Send guest back to login
			c.Abort()
			return
		}
		c.Next()
	}
}

// Session returns the session loaded by LoadSession, or a guest session if none was loaded
func Session(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok && sess != nil {
			return sess
		}
	}
	return &session.Session{}
}

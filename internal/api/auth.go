package api

import (
	"grantguard/internal/domain"     // Domain models
	"grantguard/internal/middleware" // Session access
	"grantguard/internal/service"    // Business logic
	"grantguard/internal/session"    // Session stores
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// sessionUser converts a stored user to what the session remembers
func sessionUser(u *domain.User) *session.User {
	return &session.User{
		ID:    u.UserID, // User ID
		Name:  u.Name,   // Display name
		Role:  u.Role,   // User role
		Email: u.Email,  // Email address
	}
}

// establish attaches user to the request's session and persists it
func establish(c *gin.Context, store session.Store, user *domain.User) (*session.Session, error) {
	sess := middleware.Session(c)   // Session loaded by middleware
	sess.SetUser(sessionUser(user)) // Rotates the session ID
	return sess, store.Save(c.Writer, c.Request, sess)
}

// LoginHandler authenticates a user from form fields and starts a session
func LoginHandler(auth *service.AuthService, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.PostForm("email"))       // Email from form
		password := strings.TrimSpace(c.PostForm("password")) // Password from form
		user, err := auth.Login(c.Request.Context(), email, password)
		if err != nil {
			respondError(c, err, "Login failed") // Map error to status
			return
		}
		sess, err := establish(c, store, user)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"email": email,       // User email
				"error": err.Error(), // Error message
			}).Error("Failed to save session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		// Log successful login
		logrus.WithFields(logrus.Fields{
			"user_id": user.UserID, // User ID
			"role":    user.Role,   // User role
		}).Info("User logged in")
		// Clients look for "Welcome" to detect success
		c.JSON(http.StatusOK, gin.H{"message": "Welcome", "user": sess.User})
	}
}

// SignupHandler registers (or renames) a user and logs them in
func SignupHandler(auth *service.AuthService, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := service.SignupInput{
			FirstName: formValue(c, "firstName"),                  // First name
			LastName:  formValue(c, "lastName"),                   // Last name
			Email:     formValue(c, "email", "signupEmail"),       // Email, either field name
			Password:  formValue(c, "password", "signupPassword"), // Password, either field name
		}
		user, err := auth.Signup(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Signup failed") // Map error to status
			return
		}
		sess, err := establish(c, store, user)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"email": in.Email,    // User email
				"error": err.Error(), // Error message
			}).Error("Failed to save session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
			return
		}
		// Log successful signup
		logrus.WithFields(logrus.Fields{
			"user_id": user.UserID, // User ID
			"role":    user.Role,   // User role
		}).Info("User signed up")
		c.JSON(http.StatusOK, gin.H{"message": "Signed up", "user": sess.User})
	}
}

// LogoutHandler clears the session and returns to the home page
func LogoutHandler(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Clear(c.Writer, c.Request, middleware.Session(c)); err != nil {
			logrus.WithField("error", err.Error()).Warn("Failed to clear session") // Cookie is expired regardless
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// formValue returns the first non-empty trimmed form field among names
func formValue(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.PostForm(name)); v != "" {
			return v
		}
	}
	return ""
}

package api

import (
	"errors"                     // Error inspection
	"grantguard/internal/domain" // Error taxonomy
	"net/http"                   // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// respondError maps a service error to a status code. Internal details are logged,
// never returned; fallback is the message used for unexpected failures.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route being served
			"error": err.Error(),  // Error message
		}).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

package api

import (
	"grantguard/internal/service" // Business logic
	"net/http"                    // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// UniversityPoliciesHandler lists university-level policies; no session needed
func UniversityPoliciesHandler(policies *service.PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := policies.University(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to load policies") // Internals are logged, not returned
			return
		}
		c.JSON(http.StatusOK, gin.H{"view": "policies_university", "policies": list})
	}
}

package api

import (
	"grantguard/internal/domain"     // Domain models
	"grantguard/internal/middleware" // Session access
	"grantguard/internal/service"    // Business logic
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// DashboardHandler shows the caller's awards, or an empty guest view
func DashboardHandler(awards *service.AwardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.Session(c) // Session loaded by middleware
		if !sess.Authenticated() {
			c.JSON(http.StatusOK, gin.H{
				"view":   "dashboard",      // View name
				"name":   "User",           // Guest placeholder name
				"role":   "Guest",          // Guest role
				"awards": []domain.Award{}, // Guests own nothing
			})
			return
		}
		list, err := awards.ListForUser(c.Request.Context(), sess.User.Email)
		if err != nil {
			// The dashboard still renders, just without awards
			logrus.WithFields(logrus.Fields{
				"email": sess.User.Email, // User email
				"error": err.Error(),     // Error message
			}).Error("Failed to fetch awards")
			list = []domain.Award{}
		}
		c.JSON(http.StatusOK, gin.H{
			"view":   "dashboard",     // View name
			"name":   sess.User.Name,  // Display name
			"role":   sess.User.Role,  // User role
			"email":  sess.User.Email, // Email address
			"awards": list,            // Most recent first
		})
	}
}

// awardFormFields lists the optional fields the award form accepts
var awardFormFields = []string{
	"sponsor", "department", "college", "contact_email", "abstract", "keywords", "collaborators",
	"budget_personnel", "budget_equipment", "budget_travel", "budget_materials",
}

// NewAwardHandler describes the award form
func NewAwardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"view":     "awards_new",                                                          // View name
			"required": []string{"title", "sponsor_type", "amount", "start_date", "end_date"}, // Required fields
			"optional": awardFormFields,                                                       // Optional fields
		})
	}
}

// CreateAwardHandler records a new award for the logged-in user
func CreateAwardHandler(awards *service.AwardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.Session(c).User // Guaranteed by RequireUser
		form := service.AwardForm{
			Title:           field(c, "title"),
			Sponsor:         field(c, "sponsor"),
			SponsorType:     field(c, "sponsor_type"),
			Amount:          field(c, "amount"),
			StartDate:       field(c, "start_date"),
			EndDate:         field(c, "end_date"),
			Department:      field(c, "department"),
			College:         field(c, "college"),
			ContactEmail:    field(c, "contact_email"),
			Abstract:        field(c, "abstract"),
			Keywords:        field(c, "keywords"),
			Collaborators:   field(c, "collaborators"),
			BudgetPersonnel: field(c, "budget_personnel"),
			BudgetEquipment: field(c, "budget_equipment"),
			BudgetTravel:    field(c, "budget_travel"),
			BudgetMaterials: field(c, "budget_materials"),
		}
		creator := service.Creator{UserID: user.ID, Email: user.Email}
		award, err := awards.Create(c.Request.Context(), creator, form)
		if err != nil {
			respondError(c, err, "Failed to create award") // Map error to status
			return
		}
		// Log award creation
		logrus.WithFields(logrus.Fields{
			"award_id": award.AwardID, // Award ID
			"email":    user.Email,    // Creator email
			"amount":   award.Amount,  // Awarded amount
		}).Info("Award created")
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

func field(c *gin.Context, name string) string {
	return strings.TrimSpace(c.PostForm(name))
}

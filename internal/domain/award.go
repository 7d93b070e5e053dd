package domain

import "time"

// AwardStatusPending is the status every new award starts in
const AwardStatusPending = "Pending"

// Award Model
type Award struct {
	AwardID         uint      `gorm:"column:award_id;primaryKey" json:"award_id"` // Primary key
	CreatedByEmail  string    `gorm:"not null" json:"created_by_email"`           // Email of the creating user
	Title           string    `gorm:"not null" json:"title"`                      // Award title
	Sponsor         *string   `json:"sponsor,omitempty"`                          // Sponsor name
	SponsorType     *string   `json:"sponsor_type,omitempty"`                     // Sponsor type (federal, industry, ...)
	Amount          float64   `gorm:"not null" json:"amount"`                     // Awarded amount
	StartDate       time.Time `gorm:"type:date" json:"start_date"`                // Project start
	EndDate         time.Time `gorm:"type:date" json:"end_date"`                  // Project end
	Status          string    `gorm:"default:Pending" json:"status"`              // Lifecycle status
	CreatedAt       time.Time `json:"created_at"`                                 // Timestamp of creation
	TotalBudget     *float64  `json:"total_budget,omitempty"`                     // Sum of the budget breakdown
	PIID            *uint     `gorm:"column:pi_id" json:"pi_id,omitempty"`        // Foreign key to User
	Department      *string   `json:"department,omitempty"`
	College         *string   `json:"college,omitempty"`
	ContactEmail    *string   `json:"contact_email,omitempty"`
	Abstract        *string   `json:"abstract,omitempty"`
	Keywords        *string   `json:"keywords,omitempty"`
	Collaborators   *string   `json:"collaborators,omitempty"`
	BudgetPersonnel *float64  `json:"budget_personnel,omitempty"`
	BudgetEquipment *float64  `json:"budget_equipment,omitempty"`
	BudgetTravel    *float64  `json:"budget_travel,omitempty"`
	BudgetMaterials *float64  `json:"budget_materials,omitempty"`
}

// TableName pins the table name
func (Award) TableName() string {
	return "awards"
}

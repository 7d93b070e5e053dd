package domain

import "time"

// Roles a user can hold
const (
	RolePI      = "PI"      // Principal Investigator, assigned at signup
	RoleAdmin   = "Admin"   // Research office administrator
	RoleFinance = "Finance" // Finance reviewer
)

// User Model
type User struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"` // Primary key
	Name      string    `gorm:"not null" json:"name"`                     // Display name
	Email     string    `gorm:"unique;not null" json:"email"`             // Unique email
	Role      string    `gorm:"default:PI" json:"role"`                   // Role: PI, Admin or Finance
	Password  string    `gorm:"not null" json:"-"`                        // Bcrypt hash
	CreatedAt time.Time `json:"created_at"`                               // Timestamp of creation
}

// TableName pins the table name
func (User) TableName() string {
	return "users"
}

package domain

import "time"

// Transaction Model
type Transaction struct {
	TransactionID uint      `gorm:"column:transaction_id;primaryKey"` // Primary key
	AwardID       *uint     // Foreign key to Award
	UserID        *uint     // Foreign key to User who submitted it
	Category      string    // Expense category
	Description   string    // Free-text description
	Amount        float64   // Amount of the transaction
	DateSubmitted time.Time // Submission timestamp
	Status        string    // Review status
}

// TableName pins the table name
func (Transaction) TableName() string {
	return "transactions"
}

// BudgetLine Model
type BudgetLine struct {
	LineID          uint    `gorm:"column:line_id;primaryKey"` // Primary key
	AwardID         *uint   // Foreign key to Award
	Category        string  // Budget category
	AllocatedAmount float64 // Allocated amount
	SpentAmount     float64 // Spent so far
}

// TableName pins the table name
func (BudgetLine) TableName() string {
	return "budget_lines"
}

// LLMResponse Model
type LLMResponse struct {
	ResponseID    uint      `gorm:"column:response_id;primaryKey"` // Primary key
	TransactionID *uint     // Foreign key to Transaction
	LLMDecision   string    `gorm:"column:llm_decision"` // Decision returned by the reviewer model
	Reason        string    // Reason given for the decision
	Timestamp     time.Time `gorm:"column:timestamp"` // When the response was recorded
}

// TableName pins the table name
func (LLMResponse) TableName() string {
	return "llm_responses"
}

package domain

// PolicyLevelUniversity tags university-wide policy documents
const PolicyLevelUniversity = "University"

// Policy Model
type Policy struct {
	PolicyID    uint   `gorm:"column:policy_id;primaryKey" json:"policy_id"` // Primary key
	PolicyLevel string `gorm:"not null" json:"policy_level"`                 // Level, e.g. University
	SourceName  string `json:"source_name"`                                  // Name of the source document
	PolicyText  string `json:"policy_text"`                                  // Full policy text
}

// TableName pins the table name
func (Policy) TableName() string {
	return "policies"
}

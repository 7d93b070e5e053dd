package migration

import "fmt"

// Table describes one table to copy. Columns lists every copied column except the
// primary key; ForeignKeys maps a column to the table it references.
type Table struct {
	Name        string
	PrimaryKey  string
	Columns     []string
	ForeignKeys map[string]string
}

// Schema is an ordered list of tables; parents come before their children
type Schema []Table

// GrantGuard is the application schema in dependency order
var GrantGuard = Schema{
	{
		Name:       "users",
		PrimaryKey: "user_id",
		Columns:    []string{"name", "email", "role", "password", "created_at"},
	},
	{
		Name:       "policies",
		PrimaryKey: "policy_id",
		Columns:    []string{"policy_level", "source_name", "policy_text"},
	},
	{
		Name:       "awards",
		PrimaryKey: "award_id",
		Columns: []string{
			"created_by_email", "title", "sponsor", "sponsor_type", "amount", "start_date", "end_date",
			"status", "created_at", "total_budget", "pi_id", "department", "college", "contact_email",
			"abstract", "keywords", "collaborators",
			"budget_personnel", "budget_equipment", "budget_travel", "budget_materials",
		},
		ForeignKeys: map[string]string{"pi_id": "users"},
	},
	{
		Name:        "transactions",
		PrimaryKey:  "transaction_id",
		Columns:     []string{"award_id", "user_id", "category", "description", "amount", "date_submitted", "status"},
		ForeignKeys: map[string]string{"award_id": "awards", "user_id": "users"},
	},
	{
		Name:        "budget_lines",
		PrimaryKey:  "line_id",
		Columns:     []string{"award_id", "category", "allocated_amount", "spent_amount"},
		ForeignKeys: map[string]string{"award_id": "awards"},
	},
	{
		Name:        "llm_responses",
		PrimaryKey:  "response_id",
		Columns:     []string{"transaction_id", "llm_decision", "reason", "timestamp"},
		ForeignKeys: map[string]string{"transaction_id": "transactions"},
	},
}

// Validate checks that every foreign key names a copied column and a table declared
// earlier in the schema.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, t := range s {
		if t.Name == "" || t.PrimaryKey == "" {
			return fmt.Errorf("table %q: name and primary key are required", t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("table %q declared twice", t.Name)
		}
		for col, parent := range t.ForeignKeys {
			if !t.hasColumn(col) {
				return fmt.Errorf("table %q: foreign key %q is not a copied column", t.Name, col)
			}
			if !seen[parent] {
				return fmt.Errorf("table %q: foreign key %q references %q, which is not declared before it", t.Name, col, parent)
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// Reversed returns the tables children first, the order they can be cleared in
func (s Schema) Reversed() Schema {
	out := make(Schema, len(s))
	for i, t := range s {
		out[len(s)-1-i] = t
	}
	return out
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

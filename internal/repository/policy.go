package repository

import (
	"context"

	"grantguard/internal/domain"

	"gorm.io/gorm"
)

// PolicyRepository reads the pre-seeded policies table
type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// ListByLevel returns every policy tagged with level
func (r *PolicyRepository) ListByLevel(ctx context.Context, level string) ([]domain.Policy, error) {
	policies := []domain.Policy{}
	if err := r.db.WithContext(ctx).Where("policy_level = ?", level).Order("policy_id").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

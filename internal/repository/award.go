package repository

import (
	"context" // Request-scoped context

	"grantguard/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// AwardRepository stores awards
type AwardRepository struct {
	db *gorm.DB
}

// NewAwardRepository wraps a GORM handle
func NewAwardRepository(db *gorm.DB) *AwardRepository {
	return &AwardRepository{db: db}
}

// Create inserts a new award row
func (r *AwardRepository) Create(ctx context.Context, award *domain.Award) error {
	return r.db.WithContext(ctx).Create(award).Error
}

// ListByCreator returns the awards created by email, most recent first
func (r *AwardRepository) ListByCreator(ctx context.Context, email string) ([]domain.Award, error) {
	awards := []domain.Award{}
	err := r.db.WithContext(ctx).
		Where("created_by_email = ?", email).
		Order("created_at desc").
		Order("award_id desc"). // Same-timestamp rows keep insertion order reversed
		Find(&awards).Error
	if err != nil {
		return nil, err
	}
	return awards, nil
}

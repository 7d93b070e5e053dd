package repository

import (
	"context" // Request-scoped context
	"errors"  // Error inspection

	"grantguard/internal/domain" // Domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert clauses
)

// UserRepository stores users in any GORM-supported dialect
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository wraps a GORM handle
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the user with the given email, or nil when there is none
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No such user
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user, or updates only the display name when the email already exists.
// Password and role of an existing row are left untouched.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},             // Conflict target
			DoUpdates: clause.AssignmentColumns([]string{"name"}), // Only the name changes
		}).
		Create(user).Error
}

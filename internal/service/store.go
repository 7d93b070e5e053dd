package service

import (
	"context"
	"fmt"

	"grantguard/internal/domain"
)

// UserStore is the user persistence the services need
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}

// AwardStore is the award persistence the services need
type AwardStore interface {
	Create(ctx context.Context, award *domain.Award) error
	ListByCreator(ctx context.Context, email string) ([]domain.Award, error)
}

// PolicyStore is the policy persistence the services need
type PolicyStore interface {
	ListByLevel(ctx context.Context, level string) ([]domain.Policy, error)
}

// storeErr tags a persistence failure with ErrStoreUnavailable
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

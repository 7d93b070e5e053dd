package service

import (
	"context"

	"grantguard/internal/domain"
)

// PolicyService reads policy documents
type PolicyService struct {
	policies PolicyStore
}

func NewPolicyService(policies PolicyStore) *PolicyService {
	return &PolicyService{policies: policies}
}

// University returns every university-level policy
func (s *PolicyService) University(ctx context.Context) ([]domain.Policy, error) {
	policies, err := s.policies.ListByLevel(ctx, domain.PolicyLevelUniversity)
	if err != nil {
		return nil, storeErr("list policies", err)
	}
	return policies, nil
}

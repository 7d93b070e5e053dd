package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"grantguard/internal/domain"
)

// AuthService handles signup and login
type AuthService struct {
	users UserStore
	cost  int
}

// NewAuthService hashes passwords with the given bcrypt cost; 0 selects bcrypt.DefaultCost
func NewAuthService(users UserStore, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cost: cost}
}

// Login returns the user whose email and password match
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrMissingInput)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeErr("find user", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// SignupInput is the signup form
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Signup creates a PI account, or renames the account when the email is already
// registered. It returns the stored user so the caller can log them in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: firstName, lastName, email and password are required", domain.ErrMissingInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Name:     strings.TrimSpace(in.FirstName + " " + in.LastName),
		Email:    in.Email,
		Role:     domain.RolePI,
		Password: string(hash),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, storeErr("upsert user", err)
	}
	stored, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeErr("reload user", err)
	}
	if stored == nil {
		return nil, storeErr("reload user", fmt.Errorf("user %q missing after upsert", in.Email))
	}
	return stored, nil
}

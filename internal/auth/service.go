package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sabai-pos/sabai-pos/internal/shared"
)

// Service performs credential checks and profile assembly.
type Service struct {
	repo Repository
}

// NewService wires the auth service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate verifies the given credentials and returns the matching user.
// Unknown usernames, inactive accounts and wrong passwords all map to
// shared.ErrInvalidCredentials so callers cannot probe for valid usernames.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// ProfileFor builds the login profile for a user, resolving branch display
// fields. A missing branch record degrades to placeholder values rather than
// failing the login.
func (s *Service) ProfileFor(ctx context.Context, user *User) (*Profile, error) {
	branchName, address := "Unknown Branch", "Unknown Address"
	if name, addr, err := s.repo.BranchInfo(ctx, user.BranchCode); err == nil {
		branchName, address = name, addr
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return &Profile{
		Username:   user.Username,
		LastName:   user.LastName,
		Role:       user.Role,
		BranchCode: user.BranchCode,
		BranchName: branchName,
		Address:    address,
	}, nil
}

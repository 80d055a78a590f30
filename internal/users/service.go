package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	mdshared "github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

// Same work factor the deployed system used for existing hashes.
const bcryptCost = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]User, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, mdshared.Validation("invalid user ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form UserForm) (User, error) {
	user, err := userFromForm(form)
	if err != nil {
		return User{}, err
	}
	if form.Password == "" {
		return User{}, mdshared.Validation("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcryptCost)
	if err != nil {
		return User{}, err
	}
	user.PasswordHash = string(hash)
	return s.repo.Create(ctx, user)
}

// Update replaces a user's mutable fields. An empty password keeps the
// current hash.
func (s *Service) Update(ctx context.Context, id int64, form UserForm) (User, error) {
	if id <= 0 {
		return User{}, mdshared.Validation("invalid user ID")
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	user, err := userFromForm(form)
	if err != nil {
		return User{}, err
	}
	user.PasswordHash = current.PasswordHash
	if form.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcryptCost)
		if err != nil {
			return User{}, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, id, user); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return mdshared.Validation("invalid user ID")
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Status != mdshared.StatusInactive {
		return mdshared.Conflict("user must be Inactive before deletion")
	}
	return s.repo.Delete(ctx, id)
}

func userFromForm(form UserForm) (User, error) {
	if strings.TrimSpace(form.Username) == "" {
		return User{}, mdshared.Validation("username is required")
	}
	if strings.TrimSpace(form.BranchCode) == "" {
		return User{}, mdshared.Validation("branch code is required")
	}
	if form.Role != shared.RoleAdmin && form.Role != shared.RoleCashier {
		return User{}, mdshared.Validation("role must be Admin or Cashier")
	}
	status := form.Status
	if status == "" {
		status = mdshared.StatusActive
	}
	if status != mdshared.StatusActive && status != mdshared.StatusInactive {
		return User{}, mdshared.Validation("status must be Active or Inactive")
	}
	return User{
		Username:   strings.TrimSpace(form.Username),
		LastName:   strings.TrimSpace(form.LastName),
		Role:       form.Role,
		BranchCode: strings.TrimSpace(form.BranchCode),
		Status:     status,
	}, nil
}

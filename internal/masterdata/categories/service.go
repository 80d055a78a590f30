package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Category, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, shared.Validation("invalid category ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CategoryForm) (Category, error) {
	category, err := categoryFromForm(form)
	if err != nil {
		return Category{}, err
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, created.ID)
}

func (s *Service) Update(ctx context.Context, id int64, form CategoryForm) (Category, error) {
	if id <= 0 {
		return Category{}, shared.Validation("invalid category ID")
	}
	category, err := categoryFromForm(form)
	if err != nil {
		return Category{}, err
	}
	if err := s.repo.Update(ctx, id, category); err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.Validation("invalid category ID")
	}
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if category.Status != shared.StatusInactive {
		return shared.Conflict("category must be Inactive before deletion")
	}
	return s.repo.Delete(ctx, id)
}

// EnsureByName returns the ID of the named category, creating it under the
// given group when absent. Used by the product import.
func (s *Service) EnsureByName(ctx context.Context, name string, groupID int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, shared.Validation("category name is required")
	}
	category, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return 0, err
	}
	created, err := s.repo.Create(ctx, Category{CategoryName: name, GroupID: groupID, Status: shared.StatusActive})
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			if existing, findErr := s.repo.FindByName(ctx, name); findErr == nil {
				return existing.ID, nil
			}
		}
		return 0, err
	}
	return created.ID, nil
}

func categoryFromForm(form CategoryForm) (Category, error) {
	name := strings.TrimSpace(form.CategoryName)
	if name == "" {
		return Category{}, shared.Validation("category name is required")
	}
	if form.GroupID <= 0 {
		return Category{}, shared.Validation("group is required")
	}
	status := form.Status
	if status == "" {
		status = shared.StatusActive
	}
	if status != shared.StatusActive && status != shared.StatusInactive {
		return Category{}, shared.Validation("status must be Active or Inactive")
	}
	return Category{CategoryName: name, GroupID: form.GroupID, Status: status}, nil
}

package groups

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Group, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Group, error) {
	if id <= 0 {
		return Group{}, shared.Validation("invalid group ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form GroupForm) (Group, error) {
	group, err := groupFromForm(form)
	if err != nil {
		return Group{}, err
	}
	return s.repo.Create(ctx, group)
}

func (s *Service) Update(ctx context.Context, id int64, form GroupForm) (Group, error) {
	if id <= 0 {
		return Group{}, shared.Validation("invalid group ID")
	}
	group, err := groupFromForm(form)
	if err != nil {
		return Group{}, err
	}
	if err := s.repo.Update(ctx, id, group); err != nil {
		return Group{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.Validation("invalid group ID")
	}
	group, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if group.Status != shared.StatusInactive {
		return shared.Conflict("group must be Inactive before deletion")
	}
	return s.repo.Delete(ctx, id)
}

// EnsureByName returns the ID of the named group, creating it when absent.
// Used by the product import, which references groups by display name.
func (s *Service) EnsureByName(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, shared.Validation("group name is required")
	}
	group, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return group.ID, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return 0, err
	}
	created, err := s.repo.Create(ctx, Group{GroupName: name, Status: shared.StatusActive})
	if err != nil {
		// Concurrent import rows can race on the same new name.
		if errors.Is(err, httpx.ErrDuplicate) {
			if existing, findErr := s.repo.FindByName(ctx, name); findErr == nil {
				return existing.ID, nil
			}
		}
		return 0, err
	}
	return created.ID, nil
}

func groupFromForm(form GroupForm) (Group, error) {
	name := strings.TrimSpace(form.GroupName)
	if name == "" {
		return Group{}, shared.Validation("group name is required")
	}
	status := form.Status
	if status == "" {
		status = shared.StatusActive
	}
	if status != shared.StatusActive && status != shared.StatusInactive {
		return Group{}, shared.Validation("status must be Active or Inactive")
	}
	return Group{GroupName: name, Status: status}, nil
}

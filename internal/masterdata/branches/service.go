package branches

import (
	"context"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Branch, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Branch, error) {
	if id <= 0 {
		return Branch{}, shared.Validation("invalid branch ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form BranchForm) (Branch, error) {
	branch, err := branchFromForm(form)
	if err != nil {
		return Branch{}, err
	}
	return s.repo.Create(ctx, branch)
}

func (s *Service) Update(ctx context.Context, id int64, form BranchForm) (Branch, error) {
	if id <= 0 {
		return Branch{}, shared.Validation("invalid branch ID")
	}
	branch, err := branchFromForm(form)
	if err != nil {
		return Branch{}, err
	}
	if err := s.repo.Update(ctx, id, branch); err != nil {
		return Branch{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a branch. Only inactive branches may be deleted, so a branch
// still referenced by live operations has to be retired first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.Validation("invalid branch ID")
	}
	branch, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if branch.Status != shared.StatusInactive {
		return shared.Conflict("branch must be Inactive before deletion")
	}
	return s.repo.Delete(ctx, id)
}

package products

import (
	"context"
	"strings"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	internalShared "github.com/sabai-pos/sabai-pos/internal/shared"
)

// GroupResolver resolves group names to IDs, creating them on demand.
type GroupResolver interface {
	EnsureByName(ctx context.Context, name string) (int64, error)
}

// CategoryResolver resolves category names to IDs, creating them on demand.
type CategoryResolver interface {
	EnsureByName(ctx context.Context, name string, groupID int64) (int64, error)
}

type Service struct {
	repo       Repository
	groups     GroupResolver
	categories CategoryResolver
}

func NewService(repo Repository, groups GroupResolver, categories CategoryResolver) *Service {
	return &Service{repo: repo, groups: groups, categories: categories}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) (ListResult, error) {
	products, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	if products == nil {
		products = []Product{}
	}
	return ListResult{
		Products:   products,
		Pagination: internalShared.NewPagination(filters.Page, filters.Limit, total),
	}, nil
}

func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.Validation("invalid product ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	product, err := productFromForm(form)
	if err != nil {
		return Product{}, err
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, created.ID)
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (Product, error) {
	if id <= 0 {
		return Product{}, shared.Validation("invalid product ID")
	}
	product, err := productFromForm(form)
	if err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, id, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.Validation("invalid product ID")
	}
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if product.Status != shared.StatusInactive {
		return shared.Conflict("product must be Inactive before deletion")
	}
	return s.repo.Delete(ctx, id)
}

func productFromForm(form ProductForm) (Product, error) {
	if strings.TrimSpace(form.ProductCode) == "" {
		return Product{}, shared.Validation("product code is required")
	}
	if strings.TrimSpace(form.ProductName) == "" {
		return Product{}, shared.Validation("product name is required")
	}
	if form.GroupID <= 0 {
		return Product{}, shared.Validation("group is required")
	}
	if form.CategoryID <= 0 {
		return Product{}, shared.Validation("category is required")
	}
	if form.PV < 0 {
		return Product{}, shared.Validation("pv must not be negative")
	}
	if form.UnitPrice < 0 {
		return Product{}, shared.Validation("unit price must not be negative")
	}
	status := form.Status
	if status == "" {
		status = shared.StatusActive
	}
	if status != shared.StatusActive && status != shared.StatusInactive {
		return Product{}, shared.Validation("status must be Active or Inactive")
	}
	return Product{
		ProductCode: strings.TrimSpace(form.ProductCode),
		ProductName: strings.TrimSpace(form.ProductName),
		GroupID:     form.GroupID,
		CategoryID:  form.CategoryID,
		PV:          form.PV,
		UnitPrice:   form.UnitPrice,
		Status:      status,
	}, nil
}

package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/products"
	"github.com/sabai-pos/sabai-pos/internal/observability"
	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

// ProductCatalog is the read-only catalog lookup the sale commit needs.
// Satisfied by the products repository.
type ProductCatalog interface {
	FindByCode(ctx context.Context, code string) (products.Product, error)
}

// Service validates and commits sales.
type Service struct {
	repo    Repository
	catalog ProductCatalog
	metrics *observability.Metrics
}

// NewService constructs a sales service. metrics may be nil.
func NewService(repo Repository, catalog ProductCatalog, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, catalog: catalog, metrics: metrics}
}

// CreateSale validates the request, issues a bill number and persists the
// order. Validation failures abort before a number is consumed. If the
// persist step fails after issuance the number is permanently consumed: gaps
// in the sequence are tolerated, duplicates are not, and the caller may
// safely retry the whole operation.
func (s *Service) CreateSale(ctx context.Context, identity *shared.Identity, req CreateSaleRequest) (Sale, error) {
	if err := s.validate(ctx, req); err != nil {
		return Sale{}, err
	}

	items := make([]SaleItem, 0, len(req.Items))
	var totalPrice, totalPV float64
	for _, in := range req.Items {
		item := SaleItem{
			ProductCode: in.ProductCode,
			ProductName: in.ProductName,
			UnitPrice:   in.UnitPrice,
			PV:          in.PV,
			Amount:      in.Amount,
			TotalPrice:  in.UnitPrice * float64(in.Amount),
			TotalPV:     in.PV * float64(in.Amount),
		}
		totalPrice += item.TotalPrice
		totalPV += item.TotalPV
		items = append(items, item)
	}

	billNumber, err := s.repo.NextBillNumber(ctx, req.PurchaseType, identity.BranchCode)
	if err != nil {
		return Sale{}, err
	}

	sale := Sale{
		BillNumber:   billNumber,
		MemberID:     req.MemberID,
		MemberName:   req.MemberName,
		PurchaseType: req.PurchaseType,
		BranchCode:   identity.BranchCode,
		Items:        items,
		TotalPrice:   totalPrice,
		TotalPV:      totalPV,
		BillStatus:   StatusCompleted,
		RecordBy:     identity.Username,
	}

	persisted, err := s.repo.InsertSale(ctx, sale)
	if err != nil {
		return Sale{}, fmt.Errorf("commit sale %s: %w", billNumber, err)
	}
	if s.metrics != nil {
		s.metrics.RecordSale("created", persisted.PurchaseType, persisted.BranchCode)
	}
	return persisted, nil
}

// GetSale fetches a bill with its items.
func (s *Service) GetSale(ctx context.Context, id int64) (Sale, error) {
	return s.repo.Get(ctx, id)
}

// CancelSale marks a Completed bill Canceled, stamping the acting user. A
// second cancel is rejected with ErrAlreadyCanceled; nothing else about the
// bill changes and no inventory is restored.
func (s *Service) CancelSale(ctx context.Context, identity *shared.Identity, id int64) (Sale, error) {
	sale, err := s.repo.Cancel(ctx, id, identity.Username)
	if err != nil {
		return Sale{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordSale("canceled", sale.PurchaseType, sale.BranchCode)
	}
	return sale, nil
}

// validate checks every precondition before any sequence or ledger mutation.
// The catalog lookup happens once, here; a product deactivated between this
// check and the commit still sells (known gap, matching the deployed
// behavior).
func (s *Service) validate(ctx context.Context, req CreateSaleRequest) error {
	if req.MemberID == "" || req.MemberName == "" || req.PurchaseType == "" || len(req.Items) == 0 {
		return fmt.Errorf("%w: all fields are required", httpx.ErrValidation)
	}
	for _, item := range req.Items {
		if _, err := s.catalog.FindByCode(ctx, item.ProductCode); err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductCode)
			}
			return err
		}
		if item.Amount <= 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

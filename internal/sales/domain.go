package sales

import (
	"errors"
	"time"
)

// Bill statuses. A bill moves Completed -> Canceled at most once, never back.
const (
	StatusCompleted = "Completed"
	StatusCanceled  = "Canceled"
)

var (
	ErrNotFound        = errors.New("bill not found")
	ErrAlreadyCanceled = errors.New("bill already canceled")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
)

// Sale is a committed bill. Snapshots are taken from the catalog at sale time;
// later catalog edits never change a recorded bill.
type Sale struct {
	ID           int64      `json:"id"`
	BillNumber   string     `json:"billNumber"`
	MemberID     string     `json:"memberId"`
	MemberName   string     `json:"memberName"`
	PurchaseType string     `json:"purchaseType"`
	BranchCode   string     `json:"branchCode"`
	Items        []SaleItem `json:"items"`
	TotalPrice   float64    `json:"totalPrice"`
	TotalPV      float64    `json:"totalPV"`
	BillStatus   string     `json:"billStatus"`
	RecordBy     string     `json:"recordBy"`
	CancelBy     *string    `json:"cancelBy,omitempty"`
	CanceledAt   *time.Time `json:"canceledDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// SaleItem is one bill line.
type SaleItem struct {
	ID          int64   `json:"id"`
	ProductCode string  `json:"productCode"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	PV          float64 `json:"pv"`
	Amount      int     `json:"amount"`
	TotalPrice  float64 `json:"totalPrice"`
	TotalPV     float64 `json:"totalPV"`
}

// CreateSaleRequest is the sale screen's submit payload. Branch and recording
// actor come from the authenticated identity, never from the body.
type CreateSaleRequest struct {
	MemberID     string            `json:"memberId" validate:"required"`
	MemberName   string            `json:"memberName" validate:"required"`
	PurchaseType string            `json:"purchaseType" validate:"required"`
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemRequest carries the client's catalog snapshot for one line. The
// line and order totals are recomputed server side; the client's sums are
// never persisted as-is.
type SaleItemRequest struct {
	ProductCode string  `json:"productCode" validate:"required"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	PV          float64 `json:"pv"`
	Amount      int     `json:"amount"`
	TotalPrice  float64 `json:"totalPrice"`
	TotalPV     float64 `json:"totalPV"`
}

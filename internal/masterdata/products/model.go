package products

import (
	"time"

	"github.com/sabai-pos/sabai-pos/internal/shared"
)

// Product is a sellable catalog entry. PV is the loyalty point value credited
// per unit sold.
type Product struct {
	ID           int64     `json:"id"`
	ProductCode  string    `json:"productCode"`
	ProductName  string    `json:"productName"`
	GroupID      int64     `json:"groupId"`
	GroupName    string    `json:"groupName"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	PV           float64   `json:"pv"`
	UnitPrice    float64   `json:"unitPrice"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ProductForm struct {
	ProductCode string  `json:"productCode"`
	ProductName string  `json:"productName"`
	GroupID     int64   `json:"groupId"`
	CategoryID  int64   `json:"categoryId"`
	PV          float64 `json:"pv"`
	UnitPrice   float64 `json:"unitPrice"`
	Status      string  `json:"status"`
}

// ListResult is a page of products plus pagination metadata.
type ListResult struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

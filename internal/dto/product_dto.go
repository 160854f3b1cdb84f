package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Reference      string          `json:"reference"       validate:"required,min=2,max=64"`
	Name           string          `json:"name"            validate:"required,min=2,max=120"`
	Description    *string         `json:"description"`
	CategoryID     *string         `json:"category_id"     validate:"omitempty,uuid"`
	SupplierID     *string         `json:"supplier_id"     validate:"omitempty,uuid"`
	Price          decimal.Decimal `json:"price"           validate:"required"`
	PriceHalf      decimal.Decimal `json:"price_half"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	Quantity       int             `json:"quantity"        validate:"min=0"`
	StockMin       int             `json:"stock_min"       validate:"min=0"`
}

type UpdateProductRequest struct {
	Name           *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	Description    *string          `json:"description"`
	CategoryID     *string          `json:"category_id"     validate:"omitempty,uuid"`
	SupplierID     *string          `json:"supplier_id"     validate:"omitempty,uuid"`
	Price          *decimal.Decimal `json:"price"`
	PriceHalf      *decimal.Decimal `json:"price_half"`
	PriceWholesale *decimal.Decimal `json:"price_wholesale"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	StockMin       *int             `json:"stock_min"       validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Reference  string `form:"reference"`
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	SupplierID string `form:"supplier_id"`
	Active     string `form:"active"` // true (default) | false | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID             string          `json:"id"`
	Reference      string          `json:"reference"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	CategoryID     *string         `json:"category_id"`
	SupplierID     *string         `json:"supplier_id"`
	Price          decimal.Decimal `json:"price"`
	PriceHalf      decimal.Decimal `json:"price_half"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	Quantity       int             `json:"quantity"`
	StockMin       int             `json:"stock_min"`
	Active         bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is the public price-check payload, cached in Redis.
type PriceCheckResponse struct {
	Reference      string          `json:"reference"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	PriceHalf      decimal.Decimal `json:"price_half"`
	PriceWholesale decimal.Decimal `json:"price_wholesale"`
}

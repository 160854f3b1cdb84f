package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date       string `form:"date"`        // YYYY-MM-DD; empty = no date filter
	Status     string `form:"status"`      // CONFIRMED | PARTIAL | PAID | CANCELLED | all
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type SalePaymentRequest struct {
	// Amount counts against the balance; MontantRecu is the cash tendered
	// (zero allowed for cashless methods, change derives from it).
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	MontantRecu decimal.Decimal `json:"montant_recu" validate:"gte=0"`
	Method      string          `json:"method"       validate:"required,oneof=CASH MOBILE_MONEY CARD"`
	Note        *string         `json:"note"`
}

type CreateSaleRequest struct {
	CustomerID  *string           `json:"customer_id"  validate:"omitempty,uuid"`
	SaleMode    string            `json:"sale_mode"    validate:"required,oneof=DETAIL DEMI_GROS GROS"`
	PaymentType string            `json:"payment_type" validate:"required,oneof=CASH MOBILE_MONEY CARD"`
	Items       []SaleItemRequest `json:"items"        validate:"required,min=1,dive"`
	// Payments may be empty: a sale with no payment is a credit sale.
	Payments []SalePaymentRequest `json:"payments" validate:"dive"`
}

// UpdateSaleRequest replaces the sale's items and payments wholesale.
type UpdateSaleRequest struct {
	CustomerID  *string              `json:"customer_id"  validate:"omitempty,uuid"`
	SaleMode    string               `json:"sale_mode"    validate:"required,oneof=DETAIL DEMI_GROS GROS"`
	PaymentType string               `json:"payment_type" validate:"required,oneof=CASH MOBILE_MONEY CARD"`
	Items       []SaleItemRequest    `json:"items"        validate:"required,min=1,dive"`
	Payments    []SalePaymentRequest `json:"payments"     validate:"dive"`
}

// RecordPaymentRequest adds one payment against an existing sale.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	MontantRecu decimal.Decimal `json:"montant_recu" validate:"gte=0"`
	Method      string          `json:"method"       validate:"required,oneof=CASH MOBILE_MONEY CARD"`
	Note        *string         `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type SalePaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	MontantRecu   decimal.Decimal `json:"montant_recu"`
	MonnaieRendue decimal.Decimal `json:"monnaie_rendue"`
	Method        string          `json:"method"`
	Note          *string         `json:"note"`
	CreatedAt     string          `json:"created_at"`
}

type SaleResponse struct {
	ID          string                `json:"id"`
	NumberSale  string                `json:"number_sale"`
	CustomerID  *string               `json:"customer_id"`
	SaleMode    string                `json:"sale_mode"`
	PaymentType string                `json:"payment_type"`
	Items       []SaleItemResponse    `json:"items"`
	Payments    []SalePaymentResponse `json:"payments"`
	Total       decimal.Decimal       `json:"total"`
	TotalPaid   decimal.Decimal       `json:"total_paid"`
	Status      string                `json:"status"`
	CreatedAt   string                `json:"created_at"`
}

// SaleBalanceResponse is returned by GET /v1/sales/:id/balance.
type SaleBalanceResponse struct {
	SaleID          string          `json:"sale_id"`
	Total           decimal.Decimal `json:"total"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	Status          string          `json:"status"`
}

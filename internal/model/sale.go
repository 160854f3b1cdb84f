package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale statuses. CANCELLED is terminal; CONFIRMED moves to PARTIAL or PAID
// as payments accumulate.
const (
	SaleConfirmed = "CONFIRMED"
	SalePartial   = "PARTIAL"
	SalePaid      = "PAID"
	SaleCancelled = "CANCELLED"
)

// Payment methods.
const (
	PayCash        = "CASH"
	PayMobileMoney = "MOBILE_MONEY"
	PayCard        = "CARD"
)

// Sale is a checkout with line items and zero or more payments.
// Sales are never physically deleted: cancellation restores stock, removes
// payments and marks the sale CANCELLED.
type Sale struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sale_company_number"`
	// NumberSale is the sequential display code, e.g. FAC-2026-00042.
	// Numbers repeat across companies (every tenant starts at 00001), so
	// uniqueness is on (company_id, number_sale). Year and Sequence back
	// the per-company, per-year numbering.
	NumberSale string `gorm:"not null;uniqueIndex:idx_sale_company_number"`
	Year       int    `gorm:"not null"`
	Sequence   int    `gorm:"not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null"`
	// SaleMode fixes the price tier for every line: DETAIL | DEMI_GROS | GROS
	SaleMode    string          `gorm:"type:varchar(20);not null"`
	PaymentType string          `gorm:"type:varchar(20);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID"`
	Payments []Payment  `gorm:"foreignKey:SaleID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	User     *User      `gorm:"foreignKey:UserID"`
}

// SaleItem snapshots a product line at sale time. UnitPrice does not track
// later price changes; ProductID is a reference, not ownership.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Payment applies an amount against a sale's balance. MontantRecu is the
// cash tendered and MonnaieRendue the change given back. Append-only per
// sale, except that edit and cancellation replace or delete the full set.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontantRecu   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MonnaieRendue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Method        string          `gorm:"type:varchar(20);not null"`
	Note          *string
	CreatedAt     time.Time
}

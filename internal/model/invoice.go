package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoicePending = "pending"
	InvoiceIssued  = "issued"
	InvoiceError   = "error"
)

// Invoice is the printable/emailable document generated for a sale by the
// async invoice worker. The PDF is rendered once and stored on disk.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	// Number mirrors the sale's display number
	Number       string          `gorm:"not null"`
	CustomerName *string
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to the configured PDF storage directory
	PDFPath   *string
	EmailedTo *string
	// Retry fields used by the retry cron to re-attempt failed sends
	RetryCount  int `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

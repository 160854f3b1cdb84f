package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier provides products; referenced by products and replenishment
// stock movements.
type Supplier struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null;index"`
	ContactName  *string
	Phone        *string
	Email        *string
	Address      *string
	PaymentTerms *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is a tenant. Every business record (products, sales, customers…)
// belongs to exactly one company, and all queries are company-scoped.
type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"not null;index"`
	Phone   *string
	Email   *string
	Address *string
	// InvoicePrefix is prepended to generated sale numbers (default "FAC")
	InvoicePrefix string `gorm:"not null;default:'FAC'"`
	Active        bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides GORM's default pluralization.
func (Company) TableName() string { return "companies" }

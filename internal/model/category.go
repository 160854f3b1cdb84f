package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products within a company.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_company_name"`
	Name        string    `gorm:"not null;uniqueIndex:idx_category_company_name"`
	Description *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Category) TableName() string { return "categories" }

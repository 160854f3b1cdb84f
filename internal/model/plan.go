package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a subscription tier a company can be enrolled in.
type Plan struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"uniqueIndex;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DurationMonths determines the subscription expiry computed at enrollment
	DurationMonths int  `gorm:"not null;default:1"`
	MaxUsers       int  `gorm:"not null;default:5"`
	MaxProducts    int  `gorm:"not null;default:500"`
	Active         bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Subscription enrolls a company in a plan for a period.
// A company has at most one active subscription; enrolling again deactivates
// the previous one.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null"`
	StartsAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
	Plan    *Plan    `gorm:"foreignKey:PlanID"`
}

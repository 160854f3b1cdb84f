package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Superadmin manages companies and plans and is not attached to
// any tenant; the other three are scoped to their company.
const (
	RoleSuperadmin   = "superadmin"
	RoleAdmin        = "admin"
	RoleGestionnaire = "gestionnaire"
	RoleCaissier     = "caissier"
)

// User stores system users with role-based access.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// CompanyID is nil for superadmin accounts
	CompanyID    *uuid.UUID `gorm:"type:uuid;index"`
	Username     string     `gorm:"uniqueIndex;not null"`
	FullName     string     `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Company *Company `gorm:"foreignKey:CompanyID"`
}

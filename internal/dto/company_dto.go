package dto

import "github.com/shopspring/decimal"

// DTOs for the superadmin surface: companies, plans, subscriptions.

// ─── Companies ──────────────────────────────────────────────────────────────

type CreateCompanyRequest struct {
	Name          string  `json:"name"           validate:"required,min=2,max=120"`
	Phone         *string `json:"phone"          validate:"omitempty,min=6,max=30"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Address       *string `json:"address"`
	InvoicePrefix string  `json:"invoice_prefix" validate:"omitempty,min=2,max=10,uppercase"`
	// Initial admin account for the tenant
	AdminUsername string `json:"admin_username" validate:"required,min=1,max=150"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

type UpdateCompanyRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=120"`
	Phone         *string `json:"phone"          validate:"omitempty,min=6,max=30"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Address       *string `json:"address"`
	InvoicePrefix *string `json:"invoice_prefix" validate:"omitempty,min=2,max=10,uppercase"`
}

type CompanyResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	InvoicePrefix string  `json:"invoice_prefix"`
	Active        bool    `json:"active"`
}

// ─── Plans ──────────────────────────────────────────────────────────────────

type PlanRequest struct {
	Name           string          `json:"name"            validate:"required,min=2,max=100"`
	Price          decimal.Decimal `json:"price"           validate:"required"`
	DurationMonths int             `json:"duration_months" validate:"required,min=1,max=36"`
	MaxUsers       int             `json:"max_users"       validate:"required,min=1"`
	MaxProducts    int             `json:"max_products"    validate:"required,min=1"`
}

type PlanResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	DurationMonths int             `json:"duration_months"`
	MaxUsers       int             `json:"max_users"`
	MaxProducts    int             `json:"max_products"`
}

// ─── Subscriptions ──────────────────────────────────────────────────────────

type SubscribeRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

type SubscriptionResponse struct {
	ID        string       `json:"id"`
	CompanyID string       `json:"company_id"`
	Plan      PlanResponse `json:"plan"`
	StartsAt  string       `json:"starts_at"`
	ExpiresAt string       `json:"expires_at"`
	Active    bool         `json:"active"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale modes select which of the three price tiers applies to a line item.
const (
	SaleModeDetail   = "DETAIL"
	SaleModeDemiGros = "DEMI_GROS"
	SaleModeGros     = "GROS"
)

// Product is a catalog entry with three price tiers and on-hand stock.
// Quantity is never mutated directly: every change goes through the stock
// ledger (sale, cancellation, stock movement, edit reconciliation) so the
// quantity >= 0 invariant and the audit trail both hold.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_company_ref"`
	Reference   string    `gorm:"not null;uniqueIndex:idx_product_company_ref"`
	Name        string    `gorm:"index;not null"`
	Description *string
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	SupplierID  *uuid.UUID `gorm:"type:uuid;index"`
	// Price tiers: retail, half-wholesale, wholesale. A zero tier means the
	// product is not sold in that mode.
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PriceHalf      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PriceWholesale decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PurchasePrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Quantity       int             `gorm:"not null;default:0"`
	// StockMin is the low-stock alert threshold
	StockMin  int  `gorm:"not null;default:5"`
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

// PriceForMode returns the unit price for the given sale mode. The boolean is
// false when the tier is absent (zero) for this product.
func (p *Product) PriceForMode(mode string) (decimal.Decimal, bool) {
	var price decimal.Decimal
	switch mode {
	case SaleModeDetail:
		price = p.Price
	case SaleModeDemiGros:
		price = p.PriceHalf
	case SaleModeGros:
		price = p.PriceWholesale
	default:
		return decimal.Zero, false
	}
	if price.IsZero() {
		return decimal.Zero, false
	}
	return price, true
}

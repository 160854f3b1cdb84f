package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock movement types. ENTREE/REAPPROVISIONNEMENT/INVENTAIRE add stock,
// SORTIE/VENTE remove it.
const (
	MovementEntree     = "ENTREE"
	MovementSortie     = "SORTIE"
	MovementReappro    = "REAPPROVISIONNEMENT"
	MovementVente      = "VENTE"
	MovementInventaire = "INVENTAIRE"
)

// StockMovement is an explicit, user-initiated stock adjustment independent
// of sales. Its items mutate product quantities through the stock ledger at
// creation, and by recomputed deltas (new - old) at edit time.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(30);not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []StockMovementItem `gorm:"foreignKey:StockMovementID"`
	User  *User               `gorm:"foreignKey:UserID"`
}

// StockMovementItem is one product line of a movement. Quantity is always
// positive; the movement type determines the sign of the applied delta.
type StockMovementItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StockMovementID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// StockEntry is the append-only audit row recorded for every quantity change
// a product undergoes, whatever the origin (sale, cancellation, movement,
// edit reconciliation). Entries are never modified or deleted.
type StockEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Delta          int       `gorm:"not null"`
	QuantityBefore int       `gorm:"not null"`
	QuantityAfter  int       `gorm:"not null"`
	Reason         string    `gorm:"not null"`
	// ReferenceID links to the originating sale or stock movement
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockEntry) TableName() string { return "stock_entries" }

package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MovementItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateMovementRequest struct {
	Type  string                `json:"type"  validate:"required,oneof=ENTREE SORTIE REAPPROVISIONNEMENT VENTE INVENTAIRE"`
	Note  *string               `json:"note"`
	Items []MovementItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateMovementRequest replaces the movement's items wholesale; stock is
// reconciled per product from the difference between new and old quantities.
type UpdateMovementRequest struct {
	Note  *string               `json:"note"`
	Items []MovementItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovementFilter struct {
	Type  string `form:"type"` // ENTREE | SORTIE | REAPPROVISIONNEMENT | VENTE | INVENTAIRE
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// StockEntryFilter is bound from the query string of GET /v1/stock/entries.
type StockEntryFilter struct {
	ProductID string `form:"product_id"`
	Reason    string `form:"reason"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type MovementResponse struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Note      *string                `json:"note"`
	UserID    string                 `json:"user_id"`
	Items     []MovementItemResponse `json:"items"`
	CreatedAt string                 `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type StockEntryResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	Delta          int     `json:"delta"`
	QuantityBefore int     `json:"quantity_before"`
	QuantityAfter  int     `json:"quantity_after"`
	Reason         string  `json:"reason"`
	ReferenceID    *string `json:"reference_id"`
	CreatedAt      string  `json:"created_at"`
}

type StockEntryListResponse struct {
	Data  []StockEntryResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

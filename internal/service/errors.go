package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Typed business errors. Handlers translate these into 4xx responses with a
// human-readable message; anything else surfaces as an opaque 500.

// ErrInsufficientStock is returned when a decrement would drive a product's
// quantity negative. The whole operation it belongs to is aborted.
type ErrInsufficientStock struct {
	ProductID   uuid.UUID
	ProductName string
}

func (e *ErrInsufficientStock) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("stock insuffisant pour le produit %q", e.ProductName)
	}
	return fmt.Sprintf("stock insuffisant pour le produit %s", e.ProductID)
}

// ErrMissingPriceForMode is returned when a product has no price for the
// requested sale mode. Raised before any stock mutation.
type ErrMissingPriceForMode struct {
	ProductID uuid.UUID
	SaleMode  string
}

func (e *ErrMissingPriceForMode) Error() string {
	return fmt.Sprintf("aucun prix défini pour le produit %s en mode %s", e.ProductID, e.SaleMode)
}

// ErrAlreadyFullyPaid is returned when a payment is attempted against a sale
// with no remaining balance.
type ErrAlreadyFullyPaid struct {
	SaleID uuid.UUID
}

func (e *ErrAlreadyFullyPaid) Error() string {
	return fmt.Sprintf("la vente %s est déjà entièrement payée", e.SaleID)
}

// Not-found conditions, surfaced as 404s.
var (
	ErrSaleNotFound     = errors.New("vente introuvable")
	ErrProductNotFound  = errors.New("produit introuvable")
	ErrMovementNotFound = errors.New("mouvement de stock introuvable")
	ErrSaleCancelled    = errors.New("la vente est déjà annulée")
)

// ErrInvalidPaymentAmount rejects non-positive payment amounts and negative
// tenders. Kept in the service so direct callers get the same check as HTTP.
var ErrInvalidPaymentAmount = errors.New("montant de paiement invalide")

package service

import (
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the single gate through which product quantities change.
// Every mutation is an atomic conditional UPDATE (the guard refuses any
// change that would drive quantity negative) plus one audit entry. Callers
// hold the transaction; a returned error must abort it.
type StockService interface {
	ApplyDeltaTx(tx *gorm.DB, companyID, productID uuid.UUID, delta int, reason string, referenceID *uuid.UUID) error
	// ReverseTx undoes a previously applied delta (sale cancellation, item
	// replacement). Reversing a removal restores stock; reversing an
	// addition goes back through the same non-negative guard.
	ReverseTx(tx *gorm.DB, companyID, productID uuid.UUID, appliedDelta int, reason string, referenceID *uuid.UUID) error
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

func NewStockService(productRepo repository.ProductRepository, movementRepo repository.StockMovementRepository) StockService {
	return &stockService{productRepo: productRepo, movementRepo: movementRepo}
}

func (s *stockService) ApplyDeltaTx(tx *gorm.DB, companyID, productID uuid.UUID, delta int, reason string, referenceID *uuid.UUID) error {
	if delta == 0 {
		return nil
	}

	// Snapshot for the audit row. The conditional UPDATE below is what
	// enforces the invariant, not this read.
	before, err := s.productRepo.FindByIDTx(tx, productID)
	if err != nil {
		return ErrProductNotFound
	}

	rows, err := s.productRepo.ApplyQuantityDeltaTx(tx, productID, delta)
	if err != nil {
		return err
	}
	if rows == 0 {
		return &ErrInsufficientStock{ProductID: productID, ProductName: before.Name}
	}

	entry := &model.StockEntry{
		CompanyID:      companyID,
		ProductID:      productID,
		Delta:          delta,
		QuantityBefore: before.Quantity,
		QuantityAfter:  before.Quantity + delta,
		Reason:         reason,
		ReferenceID:    referenceID,
	}
	return s.movementRepo.CreateEntryTx(tx, entry)
}

func (s *stockService) ReverseTx(tx *gorm.DB, companyID, productID uuid.UUID, appliedDelta int, reason string, referenceID *uuid.UUID) error {
	return s.ApplyDeltaTx(tx, companyID, productID, -appliedDelta, reason, referenceID)
}

package service

import (
	"context"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	// RecordPayment adds one payment against a sale's balance and moves its
	// status to PARTIAL or PAID accordingly.
	RecordPayment(ctx context.Context, companyID, saleID uuid.UUID, req dto.RecordPaymentRequest) (*dto.SalePaymentResponse, error)
	GetBalance(ctx context.Context, companyID, saleID uuid.UUID) (*dto.SaleBalanceResponse, error)
}

type paymentService struct {
	repo repository.SaleRepository
}

func NewPaymentService(repo repository.SaleRepository) PaymentService {
	return &paymentService{repo: repo}
}

func (s *paymentService) RecordPayment(ctx context.Context, companyID, saleID uuid.UUID, req dto.RecordPaymentRequest) (*dto.SalePaymentResponse, error) {
	if !req.Amount.IsPositive() || req.MontantRecu.IsNegative() {
		return nil, ErrInvalidPaymentAmount
	}
	sale, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	if sale.Status == model.SaleCancelled {
		return nil, ErrSaleCancelled
	}

	totalPaid := decimal.Zero
	for _, p := range sale.Payments {
		totalPaid = totalPaid.Add(p.Amount)
	}
	if totalPaid.GreaterThanOrEqual(sale.Total) {
		return nil, &ErrAlreadyFullyPaid{SaleID: saleID}
	}

	// Change is owed only on the part of the tender that exceeds what the
	// sale still needs. A partial tender gives no change back.
	remaining := sale.Total.Sub(totalPaid)
	change := req.MontantRecu.Sub(remaining)
	if change.IsNegative() {
		change = decimal.Zero
	}

	payment := &model.Payment{
		SaleID:        saleID,
		Amount:        req.Amount,
		MontantRecu:   req.MontantRecu,
		MonnaieRendue: change,
		Method:        req.Method,
		Note:          req.Note,
	}
	newStatus := saleStatus(sale.Total, totalPaid.Add(req.Amount))

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreatePaymentTx(tx, payment); err != nil {
			return err
		}
		return s.repo.UpdateStatusTx(tx, saleID, newStatus)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.SalePaymentResponse{
		ID:            payment.ID.String(),
		Amount:        payment.Amount,
		MontantRecu:   payment.MontantRecu,
		MonnaieRendue: payment.MonnaieRendue,
		Method:        payment.Method,
		Note:          payment.Note,
	}, nil
}

func (s *paymentService) GetBalance(ctx context.Context, companyID, saleID uuid.UUID) (*dto.SaleBalanceResponse, error) {
	sale, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		return nil, ErrSaleNotFound
	}

	totalPaid := decimal.Zero
	for _, p := range sale.Payments {
		totalPaid = totalPaid.Add(p.Amount)
	}
	remaining := sale.Total.Sub(totalPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	status := sale.Status
	if status != model.SaleCancelled {
		status = saleStatus(sale.Total, totalPaid)
	}

	return &dto.SaleBalanceResponse{
		SaleID:          saleID.String(),
		Total:           sale.Total,
		TotalPaid:       totalPaid,
		AmountRemaining: remaining,
		Status:          status,
	}, nil
}

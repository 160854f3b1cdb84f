package service

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/dto"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"
	"github.com/thiamyoussouph/sasstock-sub000/internal/worker"

	"github.com/google/uuid"
)

var ErrInvoiceNotFound = errors.New("facture introuvable")

// InvoiceService is the read surface over invoices produced by the async
// worker, plus the manual "send it again to this address" trigger.
type InvoiceService interface {
	GetBySale(ctx context.Context, companyID, saleID uuid.UUID) (*dto.InvoiceResponse, error)
	// PDFPath returns the absolute path of the rendered document for the
	// download endpoint.
	PDFPath(ctx context.Context, companyID, saleID uuid.UUID) (string, error)
	Email(ctx context.Context, companyID, saleID uuid.UUID, req dto.EmailInvoiceRequest) error
}

type invoiceService struct {
	repo           repository.InvoiceRepository
	dispatcher     *worker.Dispatcher
	pdfStoragePath string
}

func NewInvoiceService(repo repository.InvoiceRepository, dispatcher *worker.Dispatcher, pdfStoragePath string) InvoiceService {
	return &invoiceService{repo: repo, dispatcher: dispatcher, pdfStoragePath: pdfStoragePath}
}

func (s *invoiceService) GetBySale(ctx context.Context, companyID, saleID uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil || inv.CompanyID != companyID {
		return nil, ErrInvoiceNotFound
	}
	return &dto.InvoiceResponse{
		ID:           inv.ID.String(),
		SaleID:       inv.SaleID.String(),
		Number:       inv.Number,
		CustomerName: inv.CustomerName,
		Total:        inv.Total,
		Status:       inv.Status,
		EmailedTo:    inv.EmailedTo,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *invoiceService) PDFPath(ctx context.Context, companyID, saleID uuid.UUID) (string, error) {
	inv, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil || inv.CompanyID != companyID {
		return "", ErrInvoiceNotFound
	}
	if inv.PDFPath == nil {
		return "", errors.New("le PDF de la facture n'est pas encore disponible")
	}
	return filepath.Join(s.pdfStoragePath, *inv.PDFPath), nil
}

func (s *invoiceService) Email(ctx context.Context, companyID, saleID uuid.UUID, req dto.EmailInvoiceRequest) error {
	inv, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil || inv.CompanyID != companyID {
		return ErrInvoiceNotFound
	}
	if inv.PDFPath == nil {
		return errors.New("le PDF de la facture n'est pas encore disponible")
	}
	return s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		InvoiceID: inv.ID.String(),
		To:        req.To,
	})
}

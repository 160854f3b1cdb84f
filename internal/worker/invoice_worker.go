package worker

// Processes invoice generation jobs from QueueInvoice: one Invoice row per
// confirmed sale plus its rendered PDF. When the sale's customer has an
// email on file, an email job is chained onto QueueEmail.

import (
	"context"
	"encoding/json"

	"github.com/thiamyoussouph/sasstock-sub000/internal/infra"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	SaleID string `json:"sale_id"`
}

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	InvoiceID string `json:"invoice_id"`
	To        string `json:"to"`
}

type InvoiceWorker struct {
	saleRepo       repository.SaleRepository
	invoiceRepo    repository.InvoiceRepository
	companyRepo    repository.CompanyRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewInvoiceWorker(
	saleRepo repository.SaleRepository,
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *InvoiceWorker {
	return &InvoiceWorker{
		saleRepo:       saleRepo,
		invoiceRepo:    invoiceRepo,
		companyRepo:    companyRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("invoice_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByIDAnyCompany(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: sale not found")
		return
	}
	if sale.Status == model.SaleCancelled {
		log.Warn().Str("sale_id", payload.SaleID).Msg("invoice_worker: sale is cancelled, skipping")
		return
	}

	// Idempotent: a requeued job for an already issued invoice is a no-op.
	if existing, err := w.invoiceRepo.FindBySaleID(ctx, saleID); err == nil && existing.Status == model.InvoiceIssued {
		return
	}

	company, err := w.companyRepo.FindByID(ctx, sale.CompanyID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: company not found")
		return
	}

	customerName := ""
	if sale.Customer != nil {
		customerName = sale.Customer.Name
	}

	inv := &model.Invoice{
		CompanyID: sale.CompanyID,
		SaleID:    sale.ID,
		Number:    sale.NumberSale,
		Total:     sale.Total,
		Status:    model.InvoicePending,
	}
	if customerName != "" {
		inv.CustomerName = &customerName
	}
	if err := w.invoiceRepo.Create(ctx, inv); err != nil {
		// Unique sale_id index: reuse the previous pending row.
		prev, ferr := w.invoiceRepo.FindBySaleID(ctx, saleID)
		if ferr != nil {
			log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: failed to create invoice")
			return
		}
		inv = prev
	}

	pdfErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateInvoicePDF(company, sale, customerName, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("sale_id", payload.SaleID).Msg("invoice_worker: pdf generation failed")
			return err
		}
		inv.PDFPath = &path
		return nil
	})
	if pdfErr != nil {
		msg := pdfErr.Error()
		inv.Status = model.InvoiceError
		inv.LastError = &msg
		if err := w.invoiceRepo.Update(ctx, inv); err != nil {
			log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: failed to record pdf error")
		}
		return
	}

	inv.Status = model.InvoiceIssued
	inv.LastError = nil
	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("invoice_worker: failed to mark invoice issued")
		return
	}
	log.Info().Str("number", inv.Number).Str("sale_id", payload.SaleID).Msg("invoice_worker: invoice issued")

	if sale.Customer != nil && sale.Customer.Email != nil && *sale.Customer.Email != "" {
		err := w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			InvoiceID: inv.ID.String(),
			To:        *sale.Customer.Email,
		})
		if err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("invoice_worker: failed to enqueue email job")
		}
	}
}

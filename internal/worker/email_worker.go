package worker

// Sends invoice PDFs by email. The SMTP relay sits behind a circuit breaker;
// a send that still fails after the in-process retries is scheduled for the
// retry cron and the job lands in the DLQ once the breaker gives up.

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/infra"
	"github.com/thiamyoussouph/sasstock-sub000/internal/model"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEmailAttempts = 3

type EmailWorker struct {
	invoiceRepo    repository.InvoiceRepository
	mailer         *infra.Mailer
	cb             *infra.CircuitBreaker
	rdb            *redis.Client
	pdfStoragePath string
}

func NewEmailWorker(
	invoiceRepo repository.InvoiceRepository,
	mailer *infra.Mailer,
	cb *infra.CircuitBreaker,
	rdb *redis.Client,
	pdfStoragePath string,
) *EmailWorker {
	return &EmailWorker{
		invoiceRepo:    invoiceRepo,
		mailer:         mailer,
		cb:             cb,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("email_worker: invalid invoice_id")
		return
	}

	inv, err := w.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("email_worker: invoice not found")
		return
	}
	if inv.PDFPath == nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("email_worker: invoice has no pdf")
		return
	}

	sendErr := withRetry(ctx, maxEmailAttempts, func(attempt int) error {
		return w.cb.Execute(func() error {
			return w.mailer.SendInvoice(
				payload.To,
				fmt.Sprintf("Votre facture %s", inv.Number),
				fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint votre facture %s.\n\nMerci de votre confiance.", inv.Number),
				filepath.Join(w.pdfStoragePath, *inv.PDFPath),
			)
		})
	})

	if sendErr != nil {
		w.scheduleRetry(ctx, inv, payload, sendErr)
		return
	}

	inv.EmailedTo = &payload.To
	inv.NextRetryAt = nil
	inv.LastError = nil
	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("email_worker: failed to record emailed_to")
		return
	}
	log.Info().Str("invoice_id", payload.InvoiceID).Str("to", payload.To).Msg("email_worker: invoice emailed")
}

// scheduleRetry hands the invoice to the retry cron with exponential backoff
// on NextRetryAt and pushes the exhausted job to the DLQ for inspection.
func (w *EmailWorker) scheduleRetry(ctx context.Context, inv *model.Invoice, payload EmailJobPayload, cause error) {
	inv.RetryCount++
	msg := cause.Error()
	inv.LastError = &msg
	next := time.Now().Add(time.Duration(1<<inv.RetryCount) * time.Minute)
	inv.NextRetryAt = &next
	inv.EmailedTo = &payload.To

	if err := w.invoiceRepo.Update(ctx, inv); err != nil {
		log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("email_worker: failed to schedule retry")
	}

	raw, _ := json.Marshal(payload)
	SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, msg, maxEmailAttempts)
}

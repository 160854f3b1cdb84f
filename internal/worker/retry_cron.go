package worker

// Background goroutine that periodically re-attempts invoice emails whose
// send failed and whose next_retry_at is in the past. Respects the circuit
// breaker so a downed SMTP relay is not hammered.

import (
	"context"
	"time"

	"github.com/thiamyoussouph/sasstock-sub000/internal/infra"
	"github.com/thiamyoussouph/sasstock-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	InvoiceRepo repository.InvoiceRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
}

// StartRetryCron launches a goroutine that ticks every 30s and requeues
// overdue invoice emails. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the breaker is open the relay is still down — skip the tick.
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	invoices, err := cfg.InvoiceRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(invoices) == 0 {
		return
	}

	log.Info().Int("count", len(invoices)).Msg("retry_cron: requeueing overdue invoice emails")

	for i := range invoices {
		inv := &invoices[i]
		if inv.EmailedTo == nil || *inv.EmailedTo == "" {
			continue
		}

		// Clear the schedule before requeueing so the next tick does not
		// pick the same row up again while the job sits in the queue.
		inv.NextRetryAt = nil
		if err := cfg.InvoiceRepo.Update(ctx, inv); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("retry_cron: failed to clear schedule")
			continue
		}

		err := cfg.Dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			InvoiceID: inv.ID.String(),
			To:        *inv.EmailedTo,
		})
		if err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("retry_cron: failed to requeue email")
		}
	}
}

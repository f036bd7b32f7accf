package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PaymentExpirer closes pending payments that outlived their checkout.
type PaymentExpirer interface {
	ExpirePending(ctx context.Context, ttl time.Duration) (int, error)
}

// PaymentExpiryWorker periodically expires abandoned pending payments.
type PaymentExpiryWorker struct {
	payments PaymentExpirer
	interval time.Duration
	ttl      time.Duration // Age after which a pending payment is abandoned
}

// NewPaymentExpiryWorker constructs a PaymentExpiryWorker.
func NewPaymentExpiryWorker(payments PaymentExpirer, interval, ttl time.Duration) *PaymentExpiryWorker {
	return &PaymentExpiryWorker{payments: payments, interval: interval, ttl: ttl}
}

// Start begins the periodic expiry loop until context is canceled.
func (w *PaymentExpiryWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("ttl", w.ttl).
		Msg("Starting payment expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Payment expiry worker stopped")
			return
		}
	}
}

func (w *PaymentExpiryWorker) run(ctx context.Context) {
	n, err := w.payments.ExpirePending(ctx, w.ttl)
	if err != nil {
		log.Error().Err(err).Int("expired", n).Msg("Failed to expire pending payments")
		return
	}
	if n > 0 {
		log.Info().Int("expired", n).Msg("Expired pending payments")
	}
}

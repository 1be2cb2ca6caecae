package paymenthandler

import (
	"context"
	"time"

	baseworker "blytzwork-backend/lib/utils/base-worker"
)

// StartExpiryWorker fails pending payments older than expiry until ctx is done.
func StartExpiryWorker(ctx context.Context, handler Provider, expiry, interval time.Duration) {
	worker := baseworker.NewInstance("PaymentExpiryWorker", time.Minute, interval)
	go worker.Run(ctx, func(ctx context.Context) {
		count, err := handler.ExpirePending(ctx, time.Now().Add(-expiry))
		if err != nil {
			worker.GetLogger().WithError(err).Error("pending payment expiry error")
			return
		}
		if count > 0 {
			worker.GetLogger().WithField("count", count).Info("pending payments settled")
		}
	})
}

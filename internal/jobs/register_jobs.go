package jobs

import (
	"context"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/queue"
	"github.com/youbairia/marketplace/internal/services/payout"
)

// RegisterAllJobHandlers binds every background job handler to its queue
func RegisterAllJobHandlers(worker *queue.Worker, payoutService *payout.Service) {
	worker.Register(queue.QueuePayoutStatusCheck, queue.PayoutStatusCheckHandler(
		func(ctx context.Context, payoutID uuid.UUID) error {
			_, err := payoutService.CheckStatus(ctx, payoutID)
			return err
		},
	))
}

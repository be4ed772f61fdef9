package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PayoutStatusCheckPayload identifies the payout to reconcile
type PayoutStatusCheckPayload struct {
	PayoutID uuid.UUID `json:"payout_id"`
}

// PayoutEnqueuer schedules payout status checks on the Redis queue
type PayoutEnqueuer struct {
	queue      *RedisQueue
	delay      time.Duration
	maxRetries int
}

// NewPayoutEnqueuer creates an enqueuer that delays each check to give
// the rail time to settle
func NewPayoutEnqueuer(queue *RedisQueue, delay time.Duration, maxRetries int) *PayoutEnqueuer {
	return &PayoutEnqueuer{queue: queue, delay: delay, maxRetries: maxRetries}
}

// EnqueuePayoutStatusCheck schedules a status check for a payout
func (e *PayoutEnqueuer) EnqueuePayoutStatusCheck(ctx context.Context, payoutID uuid.UUID) error {
	_, err := e.queue.EnqueueIn(ctx, QueuePayoutStatusCheck,
		PayoutStatusCheckPayload{PayoutID: payoutID}, e.delay, WithMaxRetries(e.maxRetries))
	return err
}

// PayoutStatusCheckHandler returns the handler for payout status check
// jobs. check wraps the payout service's status check.
func PayoutStatusCheckHandler(check func(ctx context.Context, payoutID uuid.UUID) error) JobHandler {
	return func(ctx context.Context, job *Job) error {
		var payload PayoutStatusCheckPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return err
		}
		return check(ctx, payload.PayoutID)
	}
}

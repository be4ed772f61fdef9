package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/youbairia/marketplace/internal/config"
	"github.com/youbairia/marketplace/internal/services/payout"
)

// PayoutReconciliationJob periodically sweeps payouts stuck in
// PROCESSING and schedules rail status checks for them
type PayoutReconciliationJob struct {
	payoutService *payout.Service
	scheduler     *gocron.Scheduler
	cfg           config.PayoutConfig
}

// NewPayoutReconciliationJob creates the reconciliation sweep
func NewPayoutReconciliationJob(payoutService *payout.Service, cfg config.PayoutConfig) *PayoutReconciliationJob {
	return &PayoutReconciliationJob{
		payoutService: payoutService,
		scheduler:     gocron.NewScheduler(time.UTC),
		cfg:           cfg,
	}
}

// Start schedules the sweep and runs the scheduler in the background
func (j *PayoutReconciliationJob) Start() error {
	_, err := j.scheduler.Every(j.cfg.SweepEveryMinutes).Minutes().Do(j.run)
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler
func (j *PayoutReconciliationJob) Stop() {
	j.scheduler.Stop()
}

func (j *PayoutReconciliationJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	maxAge := time.Duration(j.cfg.StuckAfterMinutes) * time.Minute
	count, err := j.payoutService.ReconcileStuck(ctx, maxAge)
	if err != nil {
		log.Printf("payout reconciliation sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("payout reconciliation: scheduled %d status checks", count)
	}
}

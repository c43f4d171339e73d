package cron

import (
	"context"
	"fmt"
	"time"

	"discts/services/invoice"

	"go.uber.org/zap"
)

// Purger removes invoices created before a cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (invoice.PurgeResult, error)
}

// PurgeJob is the invoice retention job.
type PurgeJob struct {
	Purger        Purger
	RetentionDays int
	Now           func() time.Time
}

// Cutoff is the instant before which invoices are removed.
func (j *PurgeJob) Cutoff() time.Time {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	return now().AddDate(0, 0, -j.RetentionDays)
}

// Run performs one retention pass. Panics are recovered and reported as
// errors so a bad run never takes the process down.
func (j *PurgeJob) Run(ctx context.Context) (result invoice.PurgeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Invoice retention run panicked", zap.Any("panic", r))
			err = fmt.Errorf("retention run panicked: %v", r)
		}
	}()

	result, err = j.Purger.PurgeOlderThan(ctx, j.Cutoff())
	if err != nil {
		zap.L().Error("Invoice retention run failed", zap.Error(err))
	}
	return result, err
}

package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"discts/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeInvoicePurge = "invoices:purge"

// PurgePayload is the task body. RetentionDays overrides the job default
// when positive.
type PurgePayload struct {
	RetentionDays int `json:"retentionDays"`
}

// purgeUniqueTTL holds the uniqueness lock for a trigger. Every replica runs
// its own scheduler, so each fires the same task; the lock drops the copies
// enqueued while one is pending or running.
const purgeUniqueTTL = 12 * time.Hour

func purgeTaskOptions() []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(30 * time.Minute),
		asynq.Unique(purgeUniqueTTL),
	}
}

// NewPurgeTask builds the scheduled task. Failed runs are not retried.
func NewPurgeTask(retentionDays int) (*asynq.Task, error) {
	b, err := json.Marshal(PurgePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvoicePurge, b, purgeTaskOptions()...), nil
}

// QueueRunner registers the job with an asynq scheduler and processes it
// with an asynq server. Duplicate triggers from other replicas are
// rejected by the task's uniqueness lock; a late duplicate that arrives
// after a run finished finds nothing left to purge.
type QueueRunner struct {
	job       *PurgeJob
	schedule  string
	scheduler *asynq.Scheduler
	srv       *asynq.Server
}

func NewQueueRunner(cfg *config.Config, job *PurgeJob, loc *time.Location) *QueueRunner {
	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	return &QueueRunner{
		job:       job,
		schedule:  cfg.CleanupSchedule,
		scheduler: asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: loc}),
		srv:       srv,
	}
}

func (r *QueueRunner) Start() error {
	task, err := NewPurgeTask(r.job.RetentionDays)
	if err != nil {
		return err
	}
	if _, err := r.scheduler.Register(r.schedule, task); err != nil {
		return fmt.Errorf("failed to register retention task: %w", err)
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvoicePurge, handlePurgeTask(r.job))

	if err := r.srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start retention worker: %w", err)
	}
	if err := r.scheduler.Start(); err != nil {
		r.srv.Shutdown()
		return fmt.Errorf("failed to start retention scheduler: %w", err)
	}
	zap.L().Info("Invoice retention scheduled", zap.String("runner", "asynq"), zap.String("schedule", r.schedule))
	return nil
}

func (r *QueueRunner) Stop(context.Context) {
	r.scheduler.Shutdown()
	r.srv.Shutdown()
}

func handlePurgeTask(job *PurgeJob) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p PurgePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("Invalid retention payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		run := *job
		if p.RetentionDays > 0 {
			run.RetentionDays = p.RetentionDays
		}
		_, err := run.Run(ctx)
		return err
	}
}

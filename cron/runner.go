package cron

import (
	"context"
	"fmt"
	"time"

	"discts/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner triggers the retention job on a schedule.
type Runner interface {
	Start() error
	Stop(ctx context.Context)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// NewRunner picks the runner named by cfg.JobRunner: "local" (in-process
// cron) or "asynq" (Redis-backed scheduler and worker).
func NewRunner(cfg *config.Config, job *PurgeJob) (Runner, error) {
	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	if _, err := cronParser.Parse(cfg.CleanupSchedule); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cfg.CleanupSchedule, err)
	}

	switch cfg.JobRunner {
	case "", "local":
		return NewLocalRunner(job, cfg.CleanupSchedule, loc)
	case "asynq":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("JOB_RUNNER=asynq requires REDIS_ADDR")
		}
		return NewQueueRunner(cfg, job, loc), nil
	}
	return nil, fmt.Errorf("unknown job runner %q", cfg.JobRunner)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// LocalRunner runs the job inside the API process.
type LocalRunner struct {
	sched *cron.Cron
}

func NewLocalRunner(job *PurgeJob, schedule string, loc *time.Location) (*LocalRunner, error) {
	logger := cronLogger{zap.L().Sugar()}
	sched := cron.New(
		cron.WithLocation(loc),
		cron.WithParser(cronParser),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := sched.AddFunc(schedule, func() {
		_, _ = job.Run(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule retention job: %w", err)
	}
	return &LocalRunner{sched: sched}, nil
}

func (r *LocalRunner) Start() error {
	r.sched.Start()
	zap.L().Info("Invoice retention scheduled", zap.String("runner", "local"))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (r *LocalRunner) Stop(ctx context.Context) {
	done := r.sched.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		zap.L().Warn("Retention job still running at shutdown")
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

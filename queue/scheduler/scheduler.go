package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/notify"
	"github.com/margdarshak/margdarshak/queue/executor"
)

// Scheduler periodically claims runnable jobs and runs them through the
// executor. One scheduler instance runs per process; the claim statement
// keeps multiple instances from processing the same job.
type Scheduler struct {
	configProvider *config.Provider
	db             db.DbQueue
	executor       *executor.Executor
	logger         *slog.Logger
	notifier       notify.Notifier // optional
	ctx            context.Context
	cancel         context.CancelFunc
	shutdownDone   chan struct{}
}

// NewScheduler creates a new scheduler with executor. notifier may be nil.
func NewScheduler(provider *config.Provider, dbQueue db.DbQueue, exec *executor.Executor, logger *slog.Logger, notifier notify.Notifier) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		configProvider: provider,
		db:             dbQueue,
		executor:       exec,
		logger:         logger,
		notifier:       notifier,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}
}

// Start begins the scheduler loop in a background goroutine.
func (s *Scheduler) Start() {
	go func() {
		interval := s.configProvider.Get().Scheduler.Interval.Duration
		s.logger.Info("starting job scheduler", "interval", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("job scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.processJobs()
			}
		}
	}()
}

// Stop signals the scheduler to stop and waits for the loop to exit or the
// context to be canceled, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping job scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		s.logger.Info("job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Info("job scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) processJobs() {
	cfg := s.configProvider.Get().Scheduler

	jobs, err := s.db.Claim(cfg.MaxJobsPerTick)
	if err != nil {
		s.logger.Error("failed to claim jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	s.logger.Info("claimed jobs", "count", len(jobs))

	// The scheduler's context is the parent so running jobs see shutdown.
	g, ctx := errgroup.WithContext(s.ctx)
	g.SetLimit(runtime.NumCPU() * cfg.ConcurrencyMultiplier)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, cfg.JobTimeout.Duration)
			defer cancel()

			err := s.executeJob(jobCtx, *job)
			s.finishJob(*job, err)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("job batch interrupted due to scheduler shutdown")
		} else {
			s.logger.Error("error executing batch jobs", "err", err)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, job db.Job) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.Info("starting job execution",
		"job_id", job.ID,
		"job_type", job.JobType,
		"attempt", job.Attempts)

	return s.executor.Execute(ctx, job)
}

// finishJob records the job outcome. Successful recurrent jobs schedule
// their next occurrence in the same transaction as the completion.
func (s *Scheduler) finishJob(job db.Job, err error) {
	if err == nil {
		if job.Recurrent {
			next := db.Job{
				JobType:      job.JobType,
				Payload:      job.Payload,
				PayloadExtra: job.PayloadExtra,
				MaxAttempts:  job.MaxAttempts,
				ScheduledFor: time.Now().Add(job.Interval),
				Recurrent:    true,
				Interval:     job.Interval,
			}
			if updateErr := s.db.MarkRecurrentCompleted(job.ID, next); updateErr != nil {
				s.logger.Error("failed to mark recurrent job as completed", "job_id", job.ID, "err", updateErr)
			}
			return
		}
		if updateErr := s.db.MarkCompleted(job.ID); updateErr != nil {
			s.logger.Error("failed to mark job as completed", "job_id", job.ID, "err", updateErr)
		}
		return
	}

	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "job timeout reached: " + msg
	case errors.Is(err, context.Canceled):
		msg = "scheduler ordered to stop: " + msg
		s.logger.Info("job interrupted", "job_id", job.ID)
	}

	if updateErr := s.db.MarkFailed(job.ID, msg); updateErr != nil {
		s.logger.Error("failed to mark job as failed", "job_id", job.ID, "err", updateErr)
	}

	// The claim bumped attempts, so this was the last one.
	if job.Attempts >= job.MaxAttempts {
		s.logger.Error("job exhausted all attempts", "job_id", job.ID, "job_type", job.JobType, "err", err)
		s.alarmExhausted(job, err)
	}
}

func (s *Scheduler) alarmExhausted(job db.Job, jobErr error) {
	if s.notifier == nil {
		return
	}
	n := notify.Notification{
		Timestamp: time.Now(),
		Type:      notify.AlarmNotification,
		Level:     slog.LevelError,
		Source:    "scheduler",
		Message:   "job exhausted all attempts",
		Fields: map[string]any{
			"job_id":   job.ID,
			"job_type": job.JobType,
			"error":    jobErr.Error(),
		},
	}
	if err := s.notifier.Send(context.Background(), n); err != nil {
		s.logger.Error("failed to send exhaustion alarm", "job_id", job.ID, "err", err)
	}
}

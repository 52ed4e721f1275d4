package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/db/mock"
	"github.com/margdarshak/margdarshak/notify"
	"github.com/margdarshak/margdarshak/queue/executor"
)

type recordingHandler struct {
	mu     sync.Mutex
	jobs   []db.Job
	result error
}

func (h *recordingHandler) Handle(ctx context.Context, job db.Job) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jobs = append(h.jobs, job)
	return h.result
}

type notifierMock struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *notifierMock) Send(ctx context.Context, notification notify.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func testProvider() *config.Provider {
	cfg := config.NewDefaultConfig()
	cfg.Scheduler.Interval = config.Duration{Duration: 10 * time.Millisecond}
	cfg.Scheduler.JobTimeout = config.Duration{Duration: time.Second}
	return config.NewProvider(cfg)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// claimOnce returns the given jobs on the first claim and nothing after.
func claimOnce(jobs []*db.Job) func(limit int) ([]*db.Job, error) {
	var once sync.Once
	return func(limit int) ([]*db.Job, error) {
		var out []*db.Job
		once.Do(func() { out = jobs })
		if out == nil {
			return []*db.Job{}, nil
		}
		return out, nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSchedulerCompletesJob(t *testing.T) {
	var mu sync.Mutex
	var completed []int64

	mockDb := &mock.Db{
		ClaimFunc: claimOnce([]*db.Job{
			{ID: 1, JobType: "job_type_test", Attempts: 1, MaxAttempts: 3},
		}),
		MarkCompletedFunc: func(jobID int64) error {
			mu.Lock()
			defer mu.Unlock()
			completed = append(completed, jobID)
			return nil
		},
	}

	handler := &recordingHandler{}
	exec := executor.NewExecutor(map[string]executor.JobHandler{
		"job_type_test": handler,
	})

	s := NewScheduler(testProvider(), mockDb, exec, testLogger(), nil)
	s.Start()
	defer s.Stop(context.Background())

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(completed) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if completed[0] != 1 {
		t.Errorf("completed job %d, want 1", completed[0])
	}
}

func TestSchedulerMarksFailedAndAlarmsOnExhaustion(t *testing.T) {
	var mu sync.Mutex
	var failedID int64
	var failedMsg string

	mockDb := &mock.Db{
		ClaimFunc: claimOnce([]*db.Job{
			// Attempts already bumped to MaxAttempts by the claim.
			{ID: 7, JobType: "job_type_test", Attempts: 3, MaxAttempts: 3},
		}),
		MarkFailedFunc: func(jobID int64, errMsg string) error {
			mu.Lock()
			defer mu.Unlock()
			failedID = jobID
			failedMsg = errMsg
			return nil
		},
	}

	handler := &recordingHandler{result: errors.New("boom")}
	exec := executor.NewExecutor(map[string]executor.JobHandler{
		"job_type_test": handler,
	})
	notifier := &notifierMock{}

	s := NewScheduler(testProvider(), mockDb, exec, testLogger(), notifier)
	s.Start()
	defer s.Stop(context.Background())

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return failedID == 7
	})

	mu.Lock()
	if failedMsg == "" {
		t.Error("expected failure message to be recorded")
	}
	mu.Unlock()

	waitFor(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.sent) == 1
	})

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.sent[0].Type != notify.AlarmNotification {
		t.Errorf("notification type = %v, want alarm", notifier.sent[0].Type)
	}
}

func TestSchedulerReschedulesRecurrentJob(t *testing.T) {
	var mu sync.Mutex
	var next *db.Job

	mockDb := &mock.Db{
		ClaimFunc: claimOnce([]*db.Job{
			{ID: 2, JobType: "job_type_test", Attempts: 1, MaxAttempts: 3, Recurrent: true, Interval: time.Hour},
		}),
		MarkRecurrentCompletedFunc: func(completedJobID int64, nextJob db.Job) error {
			mu.Lock()
			defer mu.Unlock()
			next = &nextJob
			return nil
		},
	}

	handler := &recordingHandler{}
	exec := executor.NewExecutor(map[string]executor.JobHandler{
		"job_type_test": handler,
	})

	s := NewScheduler(testProvider(), mockDb, exec, testLogger(), nil)
	s.Start()
	defer s.Stop(context.Background())

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return next != nil
	})

	mu.Lock()
	defer mu.Unlock()
	if !next.Recurrent || next.Interval != time.Hour {
		t.Errorf("next job = %+v, want recurrent with 1h interval", next)
	}
	if next.ScheduledFor.Before(time.Now().Add(50 * time.Minute)) {
		t.Errorf("next job scheduled too early: %v", next.ScheduledFor)
	}
}

func TestSchedulerStop(t *testing.T) {
	mockDb := &mock.Db{}
	exec := executor.NewExecutor(map[string]executor.JobHandler{})

	s := NewScheduler(testProvider(), mockDb, exec, testLogger(), nil)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

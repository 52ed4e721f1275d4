package executor

import (
	"context"
	"fmt"

	"github.com/margdarshak/margdarshak/db"
)

// JobHandler processes a specific type of job
type JobHandler interface {
	Handle(ctx context.Context, job db.Job) error
}

// Executor dispatches claimed jobs to the handler registered for their type.
type Executor struct {
	registry map[string]JobHandler
}

// NewExecutor creates an executor with the given handlers
func NewExecutor(handlers map[string]JobHandler) *Executor {
	return &Executor{
		registry: handlers,
	}
}

// Register adds or replaces the handler for a job type.
func (e *Executor) Register(jobType string, handler JobHandler) {
	e.registry[jobType] = handler
}

// Execute runs the job through its registered handler.
func (e *Executor) Execute(ctx context.Context, job db.Job) error {
	handler, exists := e.registry[job.JobType]
	if !exists {
		return fmt.Errorf("no handler registered for job type: %s", job.JobType)
	}

	return handler.Handle(ctx, job)
}

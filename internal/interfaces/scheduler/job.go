package scheduler

import "context"

// Job is one unit of work for the worker pool
type Job interface {
	// Execute must respect ctx cancellation
	Execute(ctx context.Context) error

	UserID() int64

	// Description is used in logs and span attributes
	Description() string
}

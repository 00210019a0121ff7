package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"sparebudget/internal/domain/transaction"
)

type Collapser interface {
	Collapse(ctx context.Context, userID int64) (*transaction.CollapseResult, error)
}

// UserLister is satisfied by *user.Service
type UserLister interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// CollapseJob removes one user's duplicate transactions
type CollapseJob struct {
	userID    int64
	collapsor Collapser
	log       zerolog.Logger
}

func NewCollapseJob(userID int64, collapsor Collapser, log zerolog.Logger) *CollapseJob {
	return &CollapseJob{userID: userID, collapsor: collapsor, log: log}
}

func (j *CollapseJob) Execute(ctx context.Context) error {
	result, err := j.collapsor.Collapse(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("duplicate collapse failed: %w", err)
	}

	j.log.Info().
		Int64("user_id", j.userID).
		Int("duplicates_found", result.DuplicatesFound).
		Int("duplicates_removed", result.DuplicatesRemoved).
		Int("groups", len(result.Groups)).
		Msg("Duplicate collapse completed")
	return nil
}

func (j *CollapseJob) UserID() int64 {
	return j.userID
}

func (j *CollapseJob) Description() string {
	return fmt.Sprintf("Duplicate collapse for user %d", j.userID)
}

// CollapseJobs returns a provider producing one CollapseJob per user
func CollapseJobs(users UserLister, collapsor Collapser, log zerolog.Logger) JobProvider {
	return func(ctx context.Context) ([]Job, error) {
		ids, err := users.ListIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		jobs := make([]Job, 0, len(ids))
		for _, id := range ids {
			jobs = append(jobs, NewCollapseJob(id, collapsor, log))
		}
		return jobs, nil
	}
}

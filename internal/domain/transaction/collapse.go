package transaction

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var collapsedRows, _ = otel.Meter("sparebudget/transaction").Int64Counter(
	"transaction.collapse.removed",
	metric.WithDescription("Duplicate transactions deleted by the collapsor"),
)

const (
	// DefaultWorkerCount bounds how many users are collapsed concurrently
	DefaultWorkerCount = 4

	// NoDescriptionLabel is reported for groups whose description is empty
	NoDescriptionLabel = "No description"
)

// DuplicateGroup describes one set of rows sharing a natural key
type DuplicateGroup struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        int64           `json:"date"`
	Description string          `json:"description"`
	Count       int             `json:"count"`
	KeptID      string          `json:"keptId"`
	RemovedIDs  []string        `json:"removedIds"`
}

// CollapseResult contains the outcome of one collapse pass for a user
type CollapseResult struct {
	DuplicatesFound   int              `json:"duplicatesFound"`
	DuplicatesRemoved int              `json:"duplicatesRemoved"`
	Groups            []DuplicateGroup `json:"groups"`
}

// Collapsor removes rows that share a natural key with an earlier row,
// keeping the first inserted one.
type Collapsor struct {
	repo        Repository
	log         zerolog.Logger
	workerCount int
}

func NewCollapsor(repo Repository, log zerolog.Logger) *Collapsor {
	return NewCollapsorWithWorkers(repo, log, DefaultWorkerCount)
}

// NewCollapsorWithWorkers sets the per-user concurrency used by CollapseMany
func NewCollapsorWithWorkers(repo Repository, log zerolog.Logger, workerCount int) *Collapsor {
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	return &Collapsor{
		repo:        repo,
		log:         log.With().Str("component", "collapsor").Logger(),
		workerCount: workerCount,
	}
}

type keyGroup struct {
	key  NaturalKey
	rows []KeyRow
}

// groupDuplicates returns every natural-key group with more than one row.
// Rows inside a group are ordered by created_at then id, so rows[0] is the
// survivor. Groups are ordered by date, amount and description.
func groupDuplicates(rows []KeyRow) []keyGroup {
	byKey := make(map[string]*keyGroup)
	for _, row := range rows {
		k := row.Key()
		s := k.String()
		g, ok := byKey[s]
		if !ok {
			g = &keyGroup{key: k}
			byKey[s] = g
		}
		g.rows = append(g.rows, row)
	}

	var groups []keyGroup
	for _, g := range byKey {
		if len(g.rows) < 2 {
			continue
		}
		sort.Slice(g.rows, func(i, j int) bool {
			a, b := g.rows[i], g.rows[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		groups = append(groups, *g)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c < 0
		}
		return a.Description < b.Description
	})
	return groups
}

// Collapse deletes all but the earliest row of each duplicate group. On a
// delete failure the partial result is returned together with the error.
func (c *Collapsor) Collapse(ctx context.Context, userID int64) (*CollapseResult, error) {
	result := &CollapseResult{Groups: []DuplicateGroup{}}

	rows, err := c.repo.ListKeyRows(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to load transactions for user %d: %w", userID, err)
	}

	for _, g := range groupDuplicates(rows) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		removed := make([]string, 0, len(g.rows)-1)
		for _, row := range g.rows[1:] {
			removed = append(removed, row.ID)
		}

		result.DuplicatesFound += len(removed)

		n, err := c.repo.DeleteByIDs(ctx, userID, removed)
		if err != nil {
			return result, fmt.Errorf("failed to delete duplicates of %s: %w", g.key.String(), err)
		}
		result.DuplicatesRemoved += int(n)
		collapsedRows.Add(ctx, n)

		description := g.key.Description
		if description == "" {
			description = NoDescriptionLabel
		}
		result.Groups = append(result.Groups, DuplicateGroup{
			Amount:      g.key.Amount,
			Date:        g.key.Date,
			Description: description,
			Count:       len(g.rows),
			KeptID:      g.rows[0].ID,
			RemovedIDs:  removed,
		})
	}

	c.log.Info().
		Int64("user_id", userID).
		Int("rows", len(rows)).
		Int("groups", len(result.Groups)).
		Int("removed", result.DuplicatesRemoved).
		Msg("duplicate collapse completed")

	return result, nil
}

// UserCollapse pairs a user's collapse result with its error, if any
type UserCollapse struct {
	Result *CollapseResult
	Err    error
}

// CollapseMany collapses the given users concurrently, bounded by the
// collapsor's worker count. Returns a map of userID -> outcome.
func (c *Collapsor) CollapseMany(ctx context.Context, userIDs []int64) map[int64]UserCollapse {
	results := make(map[int64]UserCollapse, len(userIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, c.workerCount)

	for _, userID := range userIDs {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				results[uid] = UserCollapse{Err: ctx.Err()}
				mu.Unlock()
				return
			}

			result, err := c.Collapse(ctx, uid)
			if err != nil {
				c.log.Error().Err(err).Int64("user_id", uid).Msg("duplicate collapse failed")
			}

			mu.Lock()
			results[uid] = UserCollapse{Result: result, Err: err}
			mu.Unlock()
		}(userID)
	}

	wg.Wait()
	return results
}

package budget

import (
	"context"
	"fmt"
	"time"

	"sparebudget/internal/domain/transaction"
)

type Service struct {
	repo  Repository
	txs   TransactionReader
	table KeywordTable
	loc   *time.Location
	now   func() time.Time
}

// NewService builds a budget service. A nil loc means UTC.
func NewService(repo Repository, txs TransactionReader, table KeywordTable, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:  repo,
		txs:   txs,
		table: table,
		loc:   loc,
		now:   time.Now,
	}
}

// WithClock replaces the time source used for month progress
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// CurrentPeriod is the month containing the service clock's now
func (s *Service) CurrentPeriod() Period {
	return CurrentPeriod(s.now(), s.loc)
}

// SeedCategories upserts the default catalog and returns the stored catalog
func (s *Service) SeedCategories(ctx context.Context) ([]*Category, error) {
	for _, c := range DefaultCategories {
		if _, err := s.repo.UpsertCategory(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
	}
	return s.ListCategories(ctx, true)
}

func (s *Service) ListCategories(ctx context.Context, includeIncome bool) ([]*Category, error) {
	categories, err := s.repo.ListCategories(ctx, includeIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []*Category{}
	}
	return categories, nil
}

// ExpenseCategories lists the catalog's expense category names in catalog order
func (s *Service) ExpenseCategories(ctx context.Context) ([]string, error) {
	categories, err := s.ListCategories(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if !c.IsIncome {
			names = append(names, c.Name)
		}
	}
	return names, nil
}

// SaveBudget creates or replaces the budget for a category and month
func (s *Service) SaveBudget(ctx context.Context, params SaveBudgetParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategoryByID(ctx, params.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	b, err := s.repo.UpsertBudget(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	if b.Category == nil {
		b.Category = category
	}
	return b, nil
}

func (s *Service) ListBudgets(ctx context.Context, userID int64, p Period) ([]*Budget, error) {
	budgets, err := s.repo.ListActiveBudgets(ctx, userID, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		budgets = []*Budget{}
	}
	return budgets, nil
}

func (s *Service) SetGoal(ctx context.Context, params SetGoalParams) (*MonthlyGoal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g, err := s.repo.UpsertGoal(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to save monthly goal: %w", err)
	}
	return g, nil
}

// GetGoal returns nil when no goal is set for the month
func (s *Service) GetGoal(ctx context.Context, userID int64, p Period) (*MonthlyGoal, error) {
	g, err := s.repo.GetGoal(ctx, userID, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly goal: %w", err)
	}
	return g, nil
}

// MonthTransactions loads every transaction dated inside the month
func (s *Service) MonthTransactions(ctx context.Context, userID int64, p Period) ([]*transaction.Transaction, error) {
	from, to := p.Window(s.loc)
	rows, err := s.txs.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return rows, nil
}

// Spending aggregates the month's expenses by category
func (s *Service) Spending(ctx context.Context, userID int64, p Period) ([]CategorySpending, error) {
	categories, err := s.ExpenseCategories(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.MonthTransactions(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows, s.table, categories), nil
}

func (s *Service) Summary(ctx context.Context, userID int64, p Period) (*Summary, error) {
	budgets, err := s.ListBudgets(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	spending, err := s.Spending(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return Summarize(p, budgets, spending), nil
}

func (s *Service) Analysis(ctx context.Context, userID int64, p Period) (*Analysis, error) {
	budgets, err := s.ListBudgets(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	categories, err := s.ExpenseCategories(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.MonthTransactions(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	goal, err := s.GetGoal(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	total, err := s.txs.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return Analyze(AnalysisInput{
		Period:            p,
		Progress:          p.Progress(s.now(), s.loc),
		Budgets:           budgets,
		Spending:          Aggregate(rows, s.table, categories),
		Goal:              goal,
		TotalTransactions: total,
		MonthTransactions: len(rows),
	}), nil
}

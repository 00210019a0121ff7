package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"sparebudget/internal/domain/budget"
	"sparebudget/internal/domain/transaction"
)

// TrendMonths is how many months the trend series covers, ending at the target month
const TrendMonths = 6

// Budgets is the slice of the budget service analytics reads from
type Budgets interface {
	ExpenseCategories(ctx context.Context) ([]string, error)
	MonthTransactions(ctx context.Context, userID int64, p budget.Period) ([]*transaction.Transaction, error)
	Summary(ctx context.Context, userID int64, p budget.Period) (*budget.Summary, error)
}

type CurrentMonth struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type CategoryAmount struct {
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	TransactionCount int     `json:"transactionCount"`
	Color            string  `json:"color"`
}

type Trend struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	MonthName string  `json:"monthName"`
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	Net       float64 `json:"net"`
}

type Report struct {
	CurrentMonth       CurrentMonth     `json:"currentMonth"`
	SpendingByCategory []CategoryAmount `json:"spendingByCategory"`
	BudgetSummary      *budget.Summary  `json:"budgetSummary"`
	FinancialHealth    Health           `json:"financialHealth"`
	MonthlyTrends      []Trend          `json:"monthlyTrends"`
}

type Service struct {
	budgets Budgets
	table   budget.KeywordTable
	log     zerolog.Logger
}

func NewService(budgets Budgets, table budget.KeywordTable, log zerolog.Logger) *Service {
	return &Service{
		budgets: budgets,
		table:   table,
		log:     log,
	}
}

type monthTotals struct {
	income   float64
	expenses float64
	spending []budget.CategorySpending
}

func (s *Service) totals(ctx context.Context, userID int64, p budget.Period, categories []string) (*monthTotals, error) {
	rows, err := s.budgets.MonthTransactions(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	spending := budget.Aggregate(rows, s.table, categories)
	return &monthTotals{
		income:   budget.TotalIncome(rows).InexactFloat64(),
		expenses: budget.TotalSpending(spending).InexactFloat64(),
		spending: spending,
	}, nil
}

// Report builds the analytics for one month
func (s *Service) Report(ctx context.Context, userID int64, p budget.Period) (*Report, error) {
	start := time.Now()

	categories, err := s.budgets.ExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	current, err := s.totals(ctx, userID, p, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to compute month totals: %w", err)
	}

	summary, err := s.budgets.Summary(ctx, userID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to build budget summary: %w", err)
	}

	trends, err := s.trends(ctx, userID, p, categories)
	if err != nil {
		return nil, err
	}

	byCategory := make([]CategoryAmount, 0, len(current.spending))
	for _, c := range current.spending {
		byCategory = append(byCategory, CategoryAmount{
			Name:             c.Category,
			Amount:           c.Amount.InexactFloat64(),
			TransactionCount: c.TransactionCount,
			Color:            budget.CategoryColor(c.Category),
		})
	}

	s.log.Debug().
		Int64("user_id", userID).
		Int("month", p.Month).
		Int("year", p.Year).
		Dur("duration", time.Since(start)).
		Msg("Analytics report generated")

	return &Report{
		CurrentMonth:       CurrentMonth{Month: p.Month, Year: p.Year},
		SpendingByCategory: byCategory,
		BudgetSummary:      summary,
		FinancialHealth:    NewHealth(current.income, current.expenses),
		MonthlyTrends:      trends,
	}, nil
}

// Trends computes income and expenses for the TrendMonths months ending at p,
// oldest first. Months are loaded concurrently.
func (s *Service) Trends(ctx context.Context, userID int64, p budget.Period) ([]Trend, error) {
	categories, err := s.budgets.ExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return s.trends(ctx, userID, p, categories)
}

func (s *Service) trends(ctx context.Context, userID int64, p budget.Period, categories []string) ([]Trend, error) {
	trends := make([]Trend, TrendMonths)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < TrendMonths; i++ {
		month := p.AddMonths(i - (TrendMonths - 1))
		g.Go(func() error {
			t, err := s.totals(gctx, userID, month, categories)
			if err != nil {
				return fmt.Errorf("failed to compute trend for %d-%02d: %w", month.Year, month.Month, err)
			}
			trends[i] = Trend{
				Month:     month.Month,
				Year:      month.Year,
				MonthName: month.ShortMonthName(),
				Income:    t.income,
				Expenses:  t.expenses,
				Net:       t.income - t.expenses,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trends, nil
}

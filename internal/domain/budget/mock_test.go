package budget

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/transaction"
)

// MockRepository is a mock implementation of Repository for testing
type MockRepository struct {
	UpsertCategoryFunc    func(ctx context.Context, c SeedCategory) (*Category, error)
	ListCategoriesFunc    func(ctx context.Context, includeIncome bool) ([]*Category, error)
	GetCategoryByIDFunc   func(ctx context.Context, id string) (*Category, error)
	UpsertBudgetFunc      func(ctx context.Context, params SaveBudgetParams) (*Budget, error)
	ListActiveBudgetsFunc func(ctx context.Context, userID int64, month, year int) ([]*Budget, error)
	UpsertGoalFunc        func(ctx context.Context, params SetGoalParams) (*MonthlyGoal, error)
	GetGoalFunc           func(ctx context.Context, userID int64, month, year int) (*MonthlyGoal, error)
}

func (m *MockRepository) UpsertCategory(ctx context.Context, c SeedCategory) (*Category, error) {
	if m.UpsertCategoryFunc != nil {
		return m.UpsertCategoryFunc(ctx, c)
	}
	return &Category{Name: c.Name}, nil
}
func (m *MockRepository) ListCategories(ctx context.Context, includeIncome bool) ([]*Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx, includeIncome)
	}
	return nil, nil
}
func (m *MockRepository) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	if m.GetCategoryByIDFunc != nil {
		return m.GetCategoryByIDFunc(ctx, id)
	}
	return nil, nil
}
func (m *MockRepository) UpsertBudget(ctx context.Context, params SaveBudgetParams) (*Budget, error) {
	if m.UpsertBudgetFunc != nil {
		return m.UpsertBudgetFunc(ctx, params)
	}
	return &Budget{}, nil
}
func (m *MockRepository) ListActiveBudgets(ctx context.Context, userID int64, month, year int) ([]*Budget, error) {
	if m.ListActiveBudgetsFunc != nil {
		return m.ListActiveBudgetsFunc(ctx, userID, month, year)
	}
	return nil, nil
}
func (m *MockRepository) UpsertGoal(ctx context.Context, params SetGoalParams) (*MonthlyGoal, error) {
	if m.UpsertGoalFunc != nil {
		return m.UpsertGoalFunc(ctx, params)
	}
	return &MonthlyGoal{}, nil
}
func (m *MockRepository) GetGoal(ctx context.Context, userID int64, month, year int) (*MonthlyGoal, error) {
	if m.GetGoalFunc != nil {
		return m.GetGoalFunc(ctx, userID, month, year)
	}
	return nil, nil
}

// MockTransactions is a mock implementation of TransactionReader for testing
type MockTransactions struct {
	ListByDateRangeFunc func(ctx context.Context, userID int64, from, to int64) ([]*transaction.Transaction, error)
	CountByUserIDFunc   func(ctx context.Context, userID int64) (int64, error)
}

func (m *MockTransactions) ListByDateRange(ctx context.Context, userID int64, from, to int64) ([]*transaction.Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, userID, from, to)
	}
	return nil, nil
}
func (m *MockTransactions) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	if m.CountByUserIDFunc != nil {
		return m.CountByUserIDFunc(ctx, userID)
	}
	return 0, nil
}

func tx(amount, description string) *transaction.Transaction {
	d := description
	return &transaction.Transaction{
		Amount:      decimal.RequireFromString(amount),
		Description: &d,
	}
}

func budgetFor(id, category string, amount string, alert int) *Budget {
	return &Budget{
		ID:              id,
		CategoryID:      "cat-" + id,
		Category:        &Category{ID: "cat-" + id, Name: category},
		BudgetedAmount:  decimal.RequireFromString(amount),
		AlertPercentage: alert,
		IsActive:        true,
	}
}

// seededCatalog mirrors what SeedCategories stores
func seededCatalog(includeIncome bool) []*Category {
	var out []*Category
	for i, c := range DefaultCategories {
		if c.IsIncome && !includeIncome {
			continue
		}
		out = append(out, &Category{ID: fmt.Sprintf("cat-%d", i), Name: c.Name, Icon: c.Icon, Color: c.Color, IsIncome: c.IsIncome})
	}
	return out
}

func expenseNames() []string {
	var names []string
	for _, c := range seededCatalog(false) {
		names = append(names, c.Name)
	}
	return names
}

func mustTable(t interface{ Fatalf(string, ...any) }) KeywordTable {
	table, err := DefaultKeywordTable()
	if err != nil {
		t.Fatalf("DefaultKeywordTable() error = %v", err)
	}
	return table
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

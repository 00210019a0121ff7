package budget

import (
	"context"

	"sparebudget/internal/domain/transaction"
)

// Repository defines the data access for categories, budgets and goals
type Repository interface {
	// UpsertCategory inserts a catalog entry by name, or refreshes its icon and color
	UpsertCategory(ctx context.Context, c SeedCategory) (*Category, error)

	// ListCategories orders income categories first, then by name
	ListCategories(ctx context.Context, includeIncome bool) ([]*Category, error)

	// GetCategoryByID returns nil, nil when no category has the id
	GetCategoryByID(ctx context.Context, id string) (*Category, error)

	// UpsertBudget is keyed by (user, category, month, year) and reactivates the row
	UpsertBudget(ctx context.Context, params SaveBudgetParams) (*Budget, error)

	// ListActiveBudgets joins the category and orders by category name
	ListActiveBudgets(ctx context.Context, userID int64, month, year int) ([]*Budget, error)

	// UpsertGoal is keyed by (user, month, year)
	UpsertGoal(ctx context.Context, params SetGoalParams) (*MonthlyGoal, error)

	// GetGoal returns nil, nil when no goal is set
	GetGoal(ctx context.Context, userID int64, month, year int) (*MonthlyGoal, error)
}

// TransactionReader is the slice of transaction storage that budgeting reads
type TransactionReader interface {
	ListByDateRange(ctx context.Context, userID int64, from, to int64) ([]*transaction.Transaction, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

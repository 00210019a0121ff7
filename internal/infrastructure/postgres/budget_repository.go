package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sparebudget/internal/domain/budget"
)

// BudgetRepository implements budget.Repository for PostgreSQL
type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const categoryColumns = `id, name, icon, color, is_income, created_at, updated_at`

func scanCategory(s scanner) (*budget.Category, error) {
	var c budget.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.IsIncome, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *BudgetRepository) UpsertCategory(ctx context.Context, c budget.SeedCategory) (*budget.Category, error) {
	query := `
		INSERT INTO budget_categories (id, name, icon, color, is_income)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			is_income = EXCLUDED.is_income,
			updated_at = now()
		RETURNING ` + categoryColumns

	cat, err := scanCategory(r.db.QueryRowContext(ctx, query, uuid.NewString(), c.Name, c.Icon, c.Color, c.IsIncome))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category: %w", err)
	}
	return cat, nil
}

func (r *BudgetRepository) ListCategories(ctx context.Context, includeIncome bool) ([]*budget.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM budget_categories`
	if !includeIncome {
		query += ` WHERE is_income = false`
	}
	query += ` ORDER BY is_income DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []*budget.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return out, nil
}

func (r *BudgetRepository) GetCategoryByID(ctx context.Context, id string) (*budget.Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM budget_categories WHERE id = $1`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

const budgetSelect = `
	SELECT b.id, b.user_id, b.category_id, b.month, b.year, b.budgeted_amount,
	       b.alert_percentage, b.is_active, b.created_at, b.updated_at,
	       c.id, c.name, c.icon, c.color, c.is_income, c.created_at, c.updated_at
	FROM budgets b
	JOIN budget_categories c ON c.id = b.category_id`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget
	var c budget.Category
	err := s.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.Year, &b.BudgetedAmount,
		&b.AlertPercentage, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		&c.ID, &c.Name, &c.Icon, &c.Color, &c.IsIncome, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Category = &c
	return &b, nil
}

// UpsertBudget saves the budget and reactivates it. A nil alert percentage
// keeps the stored one, or the column default on insert.
func (r *BudgetRepository) UpsertBudget(ctx context.Context, p budget.SaveBudgetParams) (*budget.Budget, error) {
	query := `
		WITH saved AS (
			INSERT INTO budgets (id, user_id, category_id, month, year, budgeted_amount, alert_percentage)
			VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, $8))
			ON CONFLICT (user_id, category_id, month, year) DO UPDATE SET
				budgeted_amount = EXCLUDED.budgeted_amount,
				alert_percentage = COALESCE($7, budgets.alert_percentage),
				is_active = true,
				updated_at = now()
			RETURNING *
		)
		SELECT b.id, b.user_id, b.category_id, b.month, b.year, b.budgeted_amount,
		       b.alert_percentage, b.is_active, b.created_at, b.updated_at,
		       c.id, c.name, c.icon, c.color, c.is_income, c.created_at, c.updated_at
		FROM saved b
		JOIN budget_categories c ON c.id = b.category_id
	`

	var alert sql.NullInt64
	if p.AlertPercentage != nil {
		alert = sql.NullInt64{Int64: int64(*p.AlertPercentage), Valid: true}
	}

	b, err := scanBudget(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), p.UserID, p.CategoryID, p.Month, p.Year, p.BudgetedAmount,
		alert, budget.DefaultAlertPercentage,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return b, nil
}

func (r *BudgetRepository) ListActiveBudgets(ctx context.Context, userID int64, month, year int) ([]*budget.Budget, error) {
	query := budgetSelect + `
		WHERE b.user_id = $1 AND b.month = $2 AND b.year = $3 AND b.is_active = true
		ORDER BY c.name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var out []*budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return out, nil
}

const goalColumns = `id, user_id, month, year, total_budget, notes, created_at, updated_at`

func scanGoal(s scanner) (*budget.MonthlyGoal, error) {
	var g budget.MonthlyGoal
	var notes sql.NullString
	if err := s.Scan(&g.ID, &g.UserID, &g.Month, &g.Year, &g.TotalBudget, &notes, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Notes = stringPtr(notes)
	return &g, nil
}

func (r *BudgetRepository) UpsertGoal(ctx context.Context, p budget.SetGoalParams) (*budget.MonthlyGoal, error) {
	query := `
		INSERT INTO monthly_budget_goals (id, user_id, month, year, total_budget, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, month, year) DO UPDATE SET
			total_budget = EXCLUDED.total_budget,
			notes = EXCLUDED.notes,
			updated_at = now()
		RETURNING ` + goalColumns

	g, err := scanGoal(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), p.UserID, p.Month, p.Year, p.TotalBudget, p.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert monthly goal: %w", err)
	}
	return g, nil
}

func (r *BudgetRepository) GetGoal(ctx context.Context, userID int64, month, year int) (*budget.MonthlyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM monthly_budget_goals WHERE user_id = $1 AND month = $2 AND year = $3`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, userID, month, year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly goal: %w", err)
	}
	return g, nil
}

package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidPeriod     = errors.New("month must be 1-12 and year after 2000")
	ErrCategoryNotFound  = errors.New("budget category not found")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrInvalidAlertLevel = errors.New("alert percentage must be between 1 and 100")
)

// DefaultAlertPercentage applies when a budget is saved without a threshold
const DefaultAlertPercentage = 80

// Category is one entry of the seeded category catalog
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	IsIncome  bool      `json:"isIncome"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Budget is a user's planned spend for one category in one month
type Budget struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"userId"`
	CategoryID      string          `json:"categoryId"`
	Category        *Category       `json:"category,omitempty"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	BudgetedAmount  decimal.Decimal `json:"budgetedAmount"`
	AlertPercentage int             `json:"alertPercentage"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CategoryName returns the joined category name, or "" when not loaded
func (b *Budget) CategoryName() string {
	if b.Category == nil {
		return ""
	}
	return b.Category.Name
}

// MonthlyGoal is the user's overall spending target for one month
type MonthlyGoal struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"userId"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SeedCategory is a catalog entry before it is stored
type SeedCategory struct {
	Name     string
	Icon     string
	Color    string
	IsIncome bool
}

type SaveBudgetParams struct {
	UserID         int64
	CategoryID     string
	Month          int
	Year           int
	BudgetedAmount decimal.Decimal
	// AlertPercentage nil keeps the stored value, or DefaultAlertPercentage on insert
	AlertPercentage *int
}

func (p SaveBudgetParams) Validate() error {
	if _, err := NewPeriod(p.Year, p.Month); err != nil {
		return err
	}
	if p.CategoryID == "" {
		return ErrCategoryNotFound
	}
	if p.BudgetedAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if p.AlertPercentage != nil && (*p.AlertPercentage < 1 || *p.AlertPercentage > 100) {
		return ErrInvalidAlertLevel
	}
	return nil
}

type SetGoalParams struct {
	UserID      int64
	Month       int
	Year        int
	TotalBudget decimal.Decimal
	Notes       *string
}

func (p SetGoalParams) Validate() error {
	if _, err := NewPeriod(p.Year, p.Month); err != nil {
		return err
	}
	if p.TotalBudget.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

package budget

import (
	"testing"

	"github.com/shopspring/decimal"
)

func spendingOf(pairs ...any) []CategorySpending {
	var out []CategorySpending
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, CategorySpending{
			Category:         pairs[i].(string),
			Amount:           decimal.RequireFromString(pairs[i+1].(string)),
			TransactionCount: 1,
		})
	}
	return out
}

func TestAnalyze_Projection(t *testing.T) {
	in := AnalysisInput{
		Period:   Period{Year: 2024, Month: 6},
		Progress: Progress{DaysInMonth: 30, DaysElapsed: 10, DaysRemaining: 20},
		Budgets:  []*Budget{budgetFor("b1", "Food & Dining", "1000", 80)},
		Spending: spendingOf("Food & Dining", "500", "Transportation", "200"),
	}

	got := Analyze(in)

	if len(got.Categories) != 1 {
		t.Fatalf("len(Categories) = %d, want 1", len(got.Categories))
	}
	c := got.Categories[0]
	if c.ActualSpent != 500 || c.Remaining != 500 || c.PercentageUsed != 50 {
		t.Errorf("line = %+v", c.BudgetLine)
	}
	if c.ShouldAlert || c.IsOverBudget {
		t.Errorf("alert flags set at 50%%: %+v", c.BudgetLine)
	}
	if c.DailySpentAverage != 50 {
		t.Errorf("DailySpentAverage = %v, want 50", c.DailySpentAverage)
	}
	if c.ProjectedTotalSpending != 1500 {
		t.Errorf("ProjectedTotalSpending = %v, want 1500", c.ProjectedTotalSpending)
	}
	if !c.IsProjectedOverBudget || c.ProjectedOverBudget != 500 {
		t.Errorf("projected over = %v/%v, want true/500", c.IsProjectedOverBudget, c.ProjectedOverBudget)
	}

	// unbudgeted spending still counts in the totals
	if got.Totals.Spent != 700 {
		t.Errorf("Totals.Spent = %v, want 700", got.Totals.Spent)
	}
	if got.Totals.Remaining != 300 || !approx(got.Totals.PercentageUsed, 70) {
		t.Errorf("Totals = %+v", got.Totals)
	}
	if got.Projections.ProjectedTotalSpending != 2100 || got.Projections.ProjectedOverBudget != 1100 {
		t.Errorf("Projections = %+v", got.Projections)
	}
	if !approx(got.Projections.DailyBudget, 1000.0/30) {
		t.Errorf("DailyBudget = %v", got.Projections.DailyBudget)
	}
	if got.Alerts.ProjectedOverBudgetCount != 1 || got.Alerts.OverBudgetCount != 0 {
		t.Errorf("Alerts = %+v", got.Alerts)
	}
	if got.MonthlyGoal.IsSet || got.MonthlyGoal.Notes != nil {
		t.Errorf("MonthlyGoal = %+v, want unset", got.MonthlyGoal)
	}
	if got.Period.MonthName != "June" || got.Period.DaysElapsed != 10 {
		t.Errorf("Period = %+v", got.Period)
	}
}

func TestAnalyze_UnderProjectionIsNegative(t *testing.T) {
	got := Analyze(AnalysisInput{
		Period:   Period{Year: 2024, Month: 6},
		Progress: Progress{DaysInMonth: 30, DaysElapsed: 15},
		Budgets:  []*Budget{budgetFor("b1", "Travel", "1000", 80)},
		Spending: spendingOf("Travel", "100"),
	})

	c := got.Categories[0]
	if c.IsProjectedOverBudget || c.ProjectedOverBudget != -800 {
		t.Errorf("projected over = %v/%v, want false/-800", c.IsProjectedOverBudget, c.ProjectedOverBudget)
	}
	if c.ProjectedTotalSpending != 200 {
		t.Errorf("ProjectedTotalSpending = %v, want 200", c.ProjectedTotalSpending)
	}
}

func TestAnalyze_ZeroBudget(t *testing.T) {
	got := Analyze(AnalysisInput{
		Period:   Period{Year: 2024, Month: 6},
		Progress: Progress{DaysInMonth: 30, DaysElapsed: 10},
		Budgets:  []*Budget{budgetFor("b1", "Shopping", "0", 80)},
		Spending: spendingOf("Shopping", "100"),
	})

	c := got.Categories[0]
	if c.PercentageUsed != 0 {
		t.Errorf("PercentageUsed = %v, want 0", c.PercentageUsed)
	}
	if !c.IsOverBudget {
		t.Error("spending against a zero budget should be over budget")
	}
	if c.ShouldAlert {
		t.Error("zero budget should not trigger the alert threshold")
	}
	if got.Totals.PercentageUsed != 0 {
		t.Errorf("Totals.PercentageUsed = %v, want 0", got.Totals.PercentageUsed)
	}
}

func TestAnalyze_Alerts(t *testing.T) {
	got := Analyze(AnalysisInput{
		Period:   Period{Year: 2024, Month: 5},
		Progress: Progress{DaysInMonth: 31, DaysElapsed: 31},
		Budgets: []*Budget{
			budgetFor("b1", "Food & Dining", "1000", 80),
			budgetFor("b2", "Entertainment", "100", 90),
			budgetFor("b3", "Healthcare", "500", 50),
		},
		Spending: spendingOf("Food & Dining", "800", "Entertainment", "150", "Healthcare", "100"),
	})

	if got.Alerts.AlertCount != 2 {
		t.Errorf("AlertCount = %d, want 2", got.Alerts.AlertCount)
	}
	if got.Alerts.OverBudgetCount != 1 {
		t.Errorf("OverBudgetCount = %d, want 1", got.Alerts.OverBudgetCount)
	}
	if !got.Categories[0].ShouldAlert {
		t.Error("exactly at the alert percentage should alert")
	}
}

func TestAnalyze_Goal(t *testing.T) {
	notes := "tight month"
	got := Analyze(AnalysisInput{
		Period:   Period{Year: 2024, Month: 6},
		Progress: Progress{DaysInMonth: 30, DaysElapsed: 10},
		Budgets:  []*Budget{budgetFor("b1", "Food & Dining", "1000", 80)},
		Spending: spendingOf("Food & Dining", "500", "Transportation", "200"),
		Goal: &MonthlyGoal{
			TotalBudget: decimal.NewFromInt(2000),
			Notes:       &notes,
		},
		TotalTransactions: 42,
		MonthTransactions: 7,
	})

	g := got.MonthlyGoal
	if !g.IsSet || g.TotalBudget != 2000 || g.Notes == nil || *g.Notes != notes {
		t.Errorf("MonthlyGoal = %+v", g)
	}
	if g.Difference != 1000 {
		t.Errorf("Difference = %v, want 1000", g.Difference)
	}
	if !approx(g.GoalPercentageUsed, 35) {
		t.Errorf("GoalPercentageUsed = %v, want 35", g.GoalPercentageUsed)
	}
	if got.Transactions.Total != 42 || got.Transactions.ThisMonth != 7 {
		t.Errorf("Transactions = %+v", got.Transactions)
	}
}

func TestAnalyze_ZeroGoal(t *testing.T) {
	got := Analyze(AnalysisInput{
		Period:   Period{Year: 2024, Month: 6},
		Progress: Progress{DaysInMonth: 30, DaysElapsed: 10},
		Spending: spendingOf("Travel", "100"),
		Goal:     &MonthlyGoal{TotalBudget: decimal.Zero},
	})

	if !got.MonthlyGoal.IsSet {
		t.Error("goal should be set")
	}
	if got.MonthlyGoal.GoalPercentageUsed != 0 {
		t.Errorf("GoalPercentageUsed = %v, want 0", got.MonthlyGoal.GoalPercentageUsed)
	}
	if len(got.Categories) != 0 {
		t.Errorf("Categories = %v, want empty", got.Categories)
	}
}

package budget

// BudgetLine is one budget measured against its category's spending
type BudgetLine struct {
	ID               string    `json:"id"`
	Category         *Category `json:"category"`
	BudgetedAmount   float64   `json:"budgetedAmount"`
	ActualSpent      float64   `json:"actualSpent"`
	Remaining        float64   `json:"remaining"`
	PercentageUsed   float64   `json:"percentageUsed"`
	IsOverBudget     bool      `json:"isOverBudget"`
	TransactionCount int       `json:"transactionCount"`
	AlertPercentage  int       `json:"alertPercentage"`
	ShouldAlert      bool      `json:"shouldAlert"`
}

type Totals struct {
	Budgeted       float64 `json:"budgeted"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentageUsed"`
}

type SummaryAlerts struct {
	AlertCount      int  `json:"alertCount"`
	OverBudgetCount int  `json:"overBudgetCount"`
	HasAlerts       bool `json:"hasAlerts"`
}

type SummaryPeriod struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	MonthName string `json:"monthName"`
}

// Summary is the compact per-budget overview used by dashboards
type Summary struct {
	Summary []BudgetLine  `json:"summary"`
	Totals  Totals        `json:"totals"`
	Alerts  SummaryAlerts `json:"alerts"`
	Period  SummaryPeriod `json:"period"`
}

func newBudgetLine(b *Budget, s CategorySpending) BudgetLine {
	budgeted := b.BudgetedAmount.InexactFloat64()
	spent := s.Amount.InexactFloat64()

	var pct float64
	if budgeted > 0 {
		pct = spent / budgeted * 100
	}

	return BudgetLine{
		ID:               b.ID,
		Category:         b.Category,
		BudgetedAmount:   budgeted,
		ActualSpent:      spent,
		Remaining:        budgeted - spent,
		PercentageUsed:   pct,
		IsOverBudget:     spent > budgeted,
		TransactionCount: s.TransactionCount,
		AlertPercentage:  b.AlertPercentage,
		ShouldAlert:      budgeted > 0 && pct >= float64(b.AlertPercentage),
	}
}

// Summarize measures each budget against spending. Unlike Analyze, totals
// only count spending in budgeted categories.
func Summarize(p Period, budgets []*Budget, spending []CategorySpending) *Summary {
	out := &Summary{
		Summary: make([]BudgetLine, 0, len(budgets)),
		Period: SummaryPeriod{
			Month:     p.Month,
			Year:      p.Year,
			MonthName: p.MonthName(),
		},
	}

	for _, b := range budgets {
		line := newBudgetLine(b, spendingFor(spending, b.CategoryName()))
		out.Summary = append(out.Summary, line)

		out.Totals.Budgeted += line.BudgetedAmount
		out.Totals.Spent += line.ActualSpent
		if line.ShouldAlert {
			out.Alerts.AlertCount++
		}
		if line.IsOverBudget {
			out.Alerts.OverBudgetCount++
		}
	}

	out.Totals.Remaining = out.Totals.Budgeted - out.Totals.Spent
	if out.Totals.Budgeted > 0 {
		out.Totals.PercentageUsed = round2(out.Totals.Spent / out.Totals.Budgeted * 100)
	}
	out.Alerts.HasAlerts = out.Alerts.AlertCount > 0 || out.Alerts.OverBudgetCount > 0
	return out
}

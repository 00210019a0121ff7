package budget

// CategoryAnalysis extends a budget line with a month-end projection
type CategoryAnalysis struct {
	BudgetLine
	DailySpentAverage      float64 `json:"dailySpentAverage"`
	ProjectedTotalSpending float64 `json:"projectedTotalSpending"`
	ProjectedOverBudget    float64 `json:"projectedOverBudget"`
	IsProjectedOverBudget  bool    `json:"isProjectedOverBudget"`
}

type AnalysisPeriod struct {
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	MonthName string `json:"monthName"`
	Progress
}

type Projections struct {
	DailyBudget            float64 `json:"dailyBudget"`
	DailySpentAverage      float64 `json:"dailySpentAverage"`
	ProjectedTotalSpending float64 `json:"projectedTotalSpending"`
	ProjectedOverBudget    float64 `json:"projectedOverBudget"`
	IsProjectedOverBudget  bool    `json:"isProjectedOverBudget"`
}

type GoalStatus struct {
	IsSet              bool    `json:"isSet"`
	TotalBudget        float64 `json:"totalBudget"`
	Notes              *string `json:"notes"`
	Difference         float64 `json:"difference"`
	GoalPercentageUsed float64 `json:"goalPercentageUsed"`
}

type AnalysisAlerts struct {
	OverBudgetCount          int `json:"overBudgetCount"`
	ProjectedOverBudgetCount int `json:"projectedOverBudgetCount"`
	AlertCount               int `json:"alertCount"`
}

type TransactionCounts struct {
	Total     int64 `json:"total"`
	ThisMonth int   `json:"thisMonth"`
}

// Analysis is the full budget report for one month
type Analysis struct {
	Period       AnalysisPeriod     `json:"period"`
	Categories   []CategoryAnalysis `json:"categories"`
	Totals       Totals             `json:"totals"`
	Projections  Projections        `json:"projections"`
	MonthlyGoal  GoalStatus         `json:"monthlyGoal"`
	Alerts       AnalysisAlerts     `json:"alerts"`
	Transactions TransactionCounts  `json:"transactions"`
}

// AnalysisInput is everything Analyze needs, already loaded
type AnalysisInput struct {
	Period            Period
	Progress          Progress
	Budgets           []*Budget
	Spending          []CategorySpending
	Goal              *MonthlyGoal
	TotalTransactions int64
	MonthTransactions int
}

type projection struct {
	dailyAverage float64
	projected    float64
	over         float64
	isOver       bool
}

func project(spent, budgeted float64, p Progress) projection {
	elapsed := p.DaysElapsed
	if elapsed < 1 {
		elapsed = 1
	}
	avg := spent / float64(elapsed)
	projected := avg * float64(p.DaysInMonth)
	return projection{
		dailyAverage: avg,
		projected:    projected,
		over:         projected - budgeted,
		isOver:       projected > budgeted,
	}
}

// Analyze builds the report. Total spending covers every expense category,
// budgeted or not, so unbudgeted spending still counts against the month.
func Analyze(in AnalysisInput) *Analysis {
	out := &Analysis{
		Period: AnalysisPeriod{
			Month:     in.Period.Month,
			Year:      in.Period.Year,
			MonthName: in.Period.MonthName(),
			Progress:  in.Progress,
		},
		Categories: make([]CategoryAnalysis, 0, len(in.Budgets)),
		Transactions: TransactionCounts{
			Total:     in.TotalTransactions,
			ThisMonth: in.MonthTransactions,
		},
	}

	for _, b := range in.Budgets {
		line := newBudgetLine(b, spendingFor(in.Spending, b.CategoryName()))
		proj := project(line.ActualSpent, line.BudgetedAmount, in.Progress)

		out.Categories = append(out.Categories, CategoryAnalysis{
			BudgetLine:             line,
			DailySpentAverage:      proj.dailyAverage,
			ProjectedTotalSpending: proj.projected,
			ProjectedOverBudget:    proj.over,
			IsProjectedOverBudget:  proj.isOver,
		})

		out.Totals.Budgeted += line.BudgetedAmount
		if line.IsOverBudget {
			out.Alerts.OverBudgetCount++
		}
		if proj.isOver {
			out.Alerts.ProjectedOverBudgetCount++
		}
		if line.ShouldAlert {
			out.Alerts.AlertCount++
		}
	}

	out.Totals.Spent = TotalSpending(in.Spending).InexactFloat64()
	out.Totals.Remaining = out.Totals.Budgeted - out.Totals.Spent
	if out.Totals.Budgeted > 0 {
		out.Totals.PercentageUsed = out.Totals.Spent / out.Totals.Budgeted * 100
	}

	total := project(out.Totals.Spent, out.Totals.Budgeted, in.Progress)
	out.Projections = Projections{
		DailyBudget:            out.Totals.Budgeted / float64(in.Progress.DaysInMonth),
		DailySpentAverage:      total.dailyAverage,
		ProjectedTotalSpending: total.projected,
		ProjectedOverBudget:    total.over,
		IsProjectedOverBudget:  total.isOver,
	}

	if in.Goal != nil {
		goal := in.Goal.TotalBudget.InexactFloat64()
		status := GoalStatus{
			IsSet:       true,
			TotalBudget: goal,
			Notes:       in.Goal.Notes,
			Difference:  goal - out.Totals.Budgeted,
		}
		if goal > 0 {
			status.GoalPercentageUsed = out.Totals.Spent / goal * 100
		}
		out.MonthlyGoal = status
	}

	return out
}

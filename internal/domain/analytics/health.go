package analytics

import "math"

// Health statuses and their display colors
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusPoor      = "Poor"
)

const baseScore = 50

type Metrics struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetAmount     float64 `json:"netAmount"`
	SavingsRate   float64 `json:"savingsRate"`
}

type Health struct {
	Score   int     `json:"score"`
	Status  string  `json:"status"`
	Color   string  `json:"color"`
	Metrics Metrics `json:"metrics"`
}

// SavingsRate is the share of income left after expenses, in percent.
// Zero when there is no income.
func SavingsRate(income, expenses float64) float64 {
	if income <= 0 {
		return 0
	}
	return (income - expenses) / income * 100
}

// HealthScore rates a month from 0 to 100. The two savings-rate bonuses stack,
// so a rate above 20% earns both.
func HealthScore(income, expenses float64) int {
	rate := SavingsRate(income, expenses)
	score := float64(baseScore)
	if rate > 20 {
		score += 20
	}
	if rate > 10 {
		score += 10
	}
	if income-expenses > 0 {
		score += 15
	}
	if expenses < income*0.8 {
		score += 10
	}
	return int(math.Round(math.Min(100, math.Max(0, score))))
}

// StatusFor maps a score to its label and color
func StatusFor(score int) (status, color string) {
	switch {
	case score >= 80:
		return StatusExcellent, "#10B981"
	case score >= 65:
		return StatusGood, "#84CC16"
	case score >= 50:
		return StatusFair, "#F59E0B"
	default:
		return StatusPoor, "#EF4444"
	}
}

// NewHealth computes the full health block for one month's totals
func NewHealth(income, expenses float64) Health {
	score := HealthScore(income, expenses)
	status, color := StatusFor(score)
	return Health{
		Score:  score,
		Status: status,
		Color:  color,
		Metrics: Metrics{
			TotalIncome:   income,
			TotalExpenses: expenses,
			NetAmount:     income - expenses,
			SavingsRate:   math.Round(SavingsRate(income, expenses)*100) / 100,
		},
	}
}

package analytics

import "testing"

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses float64
		want     int
		status   string
	}{
		// 50 + 20 + 10 + 15 + 10
		{"strong saver", 10000, 5000, 100, StatusExcellent},
		// rate 15%: 50 + 10 + 15 + 0 (8500 is not below 8000)
		{"moderate saver", 10000, 8500, 75, StatusGood},
		// rate 5%: 50 + 15
		{"thin margin", 10000, 9500, 65, StatusGood},
		{"break even", 10000, 10000, 50, StatusFair},
		{"overspending", 10000, 12000, 50, StatusFair},
		// no income: rate 0, net negative
		{"no income", 0, 300, 50, StatusFair},
		{"nothing at all", 0, 0, 50, StatusFair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HealthScore(tt.income, tt.expenses)
			if got != tt.want {
				t.Errorf("HealthScore(%v, %v) = %d, want %d", tt.income, tt.expenses, got, tt.want)
			}
			if status, _ := StatusFor(got); status != tt.status {
				t.Errorf("StatusFor(%d) = %q, want %q", got, status, tt.status)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score  int
		status string
		color  string
	}{
		{100, StatusExcellent, "#10B981"},
		{80, StatusExcellent, "#10B981"},
		{79, StatusGood, "#84CC16"},
		{65, StatusGood, "#84CC16"},
		{64, StatusFair, "#F59E0B"},
		{50, StatusFair, "#F59E0B"},
		{49, StatusPoor, "#EF4444"},
		{0, StatusPoor, "#EF4444"},
	}

	for _, tt := range tests {
		status, color := StatusFor(tt.score)
		if status != tt.status || color != tt.color {
			t.Errorf("StatusFor(%d) = %q/%q, want %q/%q", tt.score, status, color, tt.status, tt.color)
		}
	}
}

func TestNewHealth(t *testing.T) {
	h := NewHealth(30000, 20000)

	if h.Metrics.NetAmount != 10000 {
		t.Errorf("NetAmount = %v, want 10000", h.Metrics.NetAmount)
	}
	if h.Metrics.SavingsRate != 33.33 {
		t.Errorf("SavingsRate = %v, want 33.33", h.Metrics.SavingsRate)
	}
	if h.Score != 100 || h.Status != StatusExcellent {
		t.Errorf("Score = %d (%s), want 100 Excellent", h.Score, h.Status)
	}
	if SavingsRate(0, 100) != 0 {
		t.Error("SavingsRate without income should be 0")
	}
}

package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/transaction"
)

func TestAggregate(t *testing.T) {
	table := mustTable(t)

	rows := []*transaction.Transaction{
		tx("-120.50", "Pizza delivery at the mall"),
		tx("-79.50", "Burger King"),
		tx("-300", "Ruter bus ticket"),
		tx("-45", "REMA 1000"),
		tx("25000", "Salary June"),
		tx("0", "Pizza refund"),
		{Amount: decimal.RequireFromString("-10")},
	}

	categories := expenseNames()
	got := Aggregate(rows, table, categories)

	if len(got) != len(categories) {
		t.Fatalf("len = %d, want every category present", len(got))
	}

	byName := make(map[string]CategorySpending)
	for _, s := range got {
		byName[s.Category] = s
	}

	tests := []struct {
		category  string
		wantTotal string
		wantCount int
	}{
		{"Food & Dining", "200", 2},
		{"Transportation", "300", 1},
		{OtherExpenses, "55", 2},
		{"Travel", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			s := byName[tt.category]
			if !s.Amount.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("amount = %s, want %s", s.Amount, tt.wantTotal)
			}
			if s.TransactionCount != tt.wantCount {
				t.Errorf("count = %d, want %d", s.TransactionCount, tt.wantCount)
			}
		})
	}

	if total := TotalSpending(got); !total.Equal(decimal.NewFromInt(555)) {
		t.Errorf("TotalSpending = %s, want 555", total)
	}
	if income := TotalIncome(rows); !income.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("TotalIncome = %s, want 25000", income)
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, mustTable(t), expenseNames())
	for _, s := range got {
		if !s.Amount.IsZero() || s.TransactionCount != 0 {
			t.Errorf("%s = %s/%d, want zero", s.Category, s.Amount, s.TransactionCount)
		}
	}
}

func TestAggregate_UsesCatalogCategories(t *testing.T) {
	rows := []*transaction.Transaction{
		tx("-100", "Pizza delivery at the mall"),
		tx("-40", "Taxi"),
		tx("-25", "REMA 1000"),
	}

	tests := []struct {
		name       string
		categories []string
		want       map[string]string
	}{
		{
			name:       "missing category falls through to its next match",
			categories: []string{"Shopping", "Transportation", OtherExpenses},
			want:       map[string]string{"Shopping": "100", "Transportation": "40", OtherExpenses: "25"},
		},
		{
			name:       "unmatched rows dropped without a fallback bucket",
			categories: []string{"Transportation"},
			want:       map[string]string{"Transportation": "40"},
		},
		{
			name:       "empty catalog yields no buckets",
			categories: nil,
			want:       map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(rows, mustTable(t), tt.categories)
			if len(got) != len(tt.categories) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.categories))
			}
			for i, s := range got {
				if s.Category != tt.categories[i] {
					t.Errorf("bucket %d = %q, want %q", i, s.Category, tt.categories[i])
				}
				if !s.Amount.Equal(decimal.RequireFromString(tt.want[s.Category])) {
					t.Errorf("%s = %s, want %s", s.Category, s.Amount, tt.want[s.Category])
				}
			}
		})
	}
}

package budget

import (
	"github.com/shopspring/decimal"

	"sparebudget/internal/domain/transaction"
)

// CategorySpending is the absolute expense total for one category
type CategorySpending struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionCount int             `json:"transactionCount"`
}

// Aggregate buckets expense rows by keyword classification into the catalog's
// expense categories. Every category appears in the result, in the given
// order, even when zero. A keyword rule only matches when its category is in
// categories. Unmatched rows go to OtherExpenses when the catalog has it and
// are dropped otherwise. Income rows (amount >= 0) are ignored.
func Aggregate(rows []*transaction.Transaction, table KeywordTable, categories []string) []CategorySpending {
	out := make([]CategorySpending, len(categories))
	index := make(map[string]int, len(categories))
	for i, name := range categories {
		out[i] = CategorySpending{Category: name, Amount: decimal.Zero}
		index[name] = i
	}
	known := func(name string) bool {
		_, ok := index[name]
		return ok
	}

	for _, tx := range rows {
		if !tx.Amount.IsNegative() {
			continue
		}
		i, ok := index[table.ClassifyWithin(tx.DescriptionText(), known)]
		if !ok {
			continue
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount.Abs())
		out[i].TransactionCount++
	}
	return out
}

// TotalSpending sums every category bucket
func TotalSpending(spending []CategorySpending) decimal.Decimal {
	total := decimal.Zero
	for _, s := range spending {
		total = total.Add(s.Amount)
	}
	return total
}

// TotalIncome sums the positive amounts in rows
func TotalIncome(rows []*transaction.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range rows {
		if tx.Amount.IsPositive() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

func spendingFor(spending []CategorySpending, name string) CategorySpending {
	for _, s := range spending {
		if s.Category == name {
			return s
		}
	}
	return CategorySpending{Category: name, Amount: decimal.Zero}
}

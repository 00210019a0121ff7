package budget

// OtherExpenses is the fallback bucket for unclassified spending
const OtherExpenses = "Other Expenses"

const defaultColor = "#6B7280"

// DefaultCategories is the seeded catalog, expense categories first
var DefaultCategories = []SeedCategory{
	{Name: "Food & Dining", Icon: "🍽️", Color: "#EF4444"},
	{Name: "Transportation", Icon: "🚗", Color: "#F59E0B"},
	{Name: "Shopping", Icon: "🛒", Color: "#8B5CF6"},
	{Name: "Bills & Utilities", Icon: "⚡", Color: "#3B82F6"},
	{Name: "Entertainment", Icon: "🎬", Color: "#F97316"},
	{Name: "Healthcare", Icon: "🏥", Color: "#06B6D4"},
	{Name: "Education", Icon: "📚", Color: "#84CC16"},
	{Name: "Travel", Icon: "✈️", Color: "#EC4899"},
	{Name: "Personal Care", Icon: "💄", Color: "#A855F7"},
	{Name: OtherExpenses, Icon: "📋", Color: defaultColor},

	{Name: "Salary", Icon: "💰", Color: "#10B981", IsIncome: true},
	{Name: "Freelance", Icon: "💻", Color: "#059669", IsIncome: true},
	{Name: "Investments", Icon: "📈", Color: "#047857", IsIncome: true},
	{Name: "Other Income", Icon: "💎", Color: "#065F46", IsIncome: true},
}

// CategoryColor returns the catalog color for name
func CategoryColor(name string) string {
	for _, c := range DefaultCategories {
		if c.Name == name {
			return c.Color
		}
	}
	return defaultColor
}

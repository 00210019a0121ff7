package budget

import "testing"

func TestDefaultKeywordTable(t *testing.T) {
	table := mustTable(t)

	if len(table) != 9 {
		t.Fatalf("len(table) = %d, want 9", len(table))
	}
	if table[0].Name != "Food & Dining" {
		t.Errorf("table[0] = %q, want Food & Dining", table[0].Name)
	}
	for _, c := range table {
		if c.Name == OtherExpenses {
			t.Errorf("table should not name the %q fallback", OtherExpenses)
		}
	}
}

func TestKeywordTable_Classify(t *testing.T) {
	table := mustTable(t)

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"simple match", "Netflix.com", "Entertainment"},
		{"case insensitive", "UBER *RIDE", "Transportation"},
		{"first match wins", "Pizza delivery at the mall", "Food & Dining"},
		{"earlier category beats later keyword", "Hotel booking", "Education"},
		{"travel", "Flight to Bergen", "Travel"},
		{"no match", "REMA 1000", OtherExpenses},
		{"empty", "", OtherExpenses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Classify(tt.description); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestKeywordTable_ClassifyWithin(t *testing.T) {
	table := mustTable(t)
	noFood := func(name string) bool { return name != "Food & Dining" }

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"skipped rule falls through to next match", "Pizza delivery at the mall", "Shopping"},
		{"no other rule matches", "Pizza", OtherExpenses},
		{"unrelated rule unaffected", "Taxi", "Transportation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.ClassifyWithin(tt.description, noFood); got != tt.want {
				t.Errorf("ClassifyWithin(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestParseKeywordTable(t *testing.T) {
	table, err := ParseKeywordTable([]byte(`[{"name":"Groceries","keywords":["KIWI","Rema"]}]`))
	if err != nil {
		t.Fatalf("ParseKeywordTable() error = %v", err)
	}
	if got := table.Classify("kiwi minipris"); got != "Groceries" {
		t.Errorf("Classify() = %q, want Groceries", got)
	}

	if _, err := ParseKeywordTable([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := ParseKeywordTable([]byte(`[{"keywords":["x"]}]`)); err == nil {
		t.Error("expected error for entry without a name")
	}
}

func TestCategoryColor(t *testing.T) {
	if got := CategoryColor("Travel"); got != "#EC4899" {
		t.Errorf("CategoryColor(Travel) = %q", got)
	}
	if got := CategoryColor("Unknown"); got != "#6B7280" {
		t.Errorf("CategoryColor(Unknown) = %q, want default", got)
	}
}

package budget

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed keywords.json
var defaultKeywordsJSON []byte

// CategoryKeywords maps one category to the substrings that select it
type CategoryKeywords struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// KeywordTable is an ordered classification table. Order matters: the first
// category with a matching keyword wins.
type KeywordTable []CategoryKeywords

var (
	defaultTable   KeywordTable
	defaultOnce    sync.Once
	defaultLoadErr error
)

// DefaultKeywordTable returns the embedded table, parsed once.
// Safe to call from multiple goroutines.
func DefaultKeywordTable() (KeywordTable, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultLoadErr = ParseKeywordTable(defaultKeywordsJSON)
	})
	return defaultTable, defaultLoadErr
}

// ParseKeywordTable decodes a JSON table and lowercases its keywords
func ParseKeywordTable(data []byte) (KeywordTable, error) {
	var table KeywordTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse keyword table: %w", err)
	}
	for i := range table {
		if table[i].Name == "" {
			return nil, fmt.Errorf("keyword table entry %d has no name", i)
		}
		for j, kw := range table[i].Keywords {
			table[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return table, nil
}

// Classify returns the first category whose keywords occur in description,
// or OtherExpenses.
func (t KeywordTable) Classify(description string) string {
	return t.ClassifyWithin(description, nil)
}

// ClassifyWithin is Classify restricted to the categories known accepts.
// Rules for other categories are skipped, so a later rule can still match.
// A nil known accepts every category.
func (t KeywordTable) ClassifyWithin(description string, known func(name string) bool) string {
	d := strings.ToLower(description)
	for _, c := range t {
		if known != nil && !known(c.Name) {
			continue
		}
		for _, kw := range c.Keywords {
			if kw != "" && strings.Contains(d, kw) {
				return c.Name
			}
		}
	}
	return OtherExpenses
}

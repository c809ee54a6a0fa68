// Package categories carries the fixed chart of accounting categories
// used to populate selection controls and to validate new transactions.
// The report filter itself treats categories as opaque strings; only the
// creation boundary consults this list.
package categories

import "cashflow/internal/core"

// Chart is the ordered list of permissible category labels.
var Chart = []string{
	"Salary",
	"Freelance",
	"Investments",
	"Other Income",
	"Rent",
	"Utilities",
	"Groceries",
	"Transport",
	"Health",
	"Entertainment",
	"Education",
	"Insurance",
	"Taxes",
	"Other Expense",
}

// List returns a copy of the chart so callers cannot mutate the shared
// slice.
func List() []string {
	out := make([]string, len(Chart))
	copy(out, Chart)
	return out
}

// Contains reports whether name is a known category label. The wildcard
// sentinel is not a category and always reports false.
func Contains(name string) bool {
	if name == core.All {
		return false
	}
	for _, c := range Chart {
		if c == name {
			return true
		}
	}
	return false
}

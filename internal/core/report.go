package core

import (
	"slices"
	"time"
)

// ReportFilters is the user-controlled query for a filtered report.
// Start and End are calendar dates; the range is inclusive on both ends,
// with End extended to the last instant of its day. Type and Category
// accept the All sentinel to disable that dimension.
type ReportFilters struct {
	Start    time.Time
	End      time.Time
	Type     string
	Category string
}

// DefaultReportFilters returns the initial filter window: the first day of
// now's month through now, with both dimensions unrestricted.
func DefaultReportFilters(now time.Time) ReportFilters {
	return ReportFilters{
		Start:    time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		End:      now,
		Type:     All,
		Category: All,
	}
}

// Report is a date/type/category-restricted view of the collection,
// ordered ascending by date, plus totals scoped to that view.
type Report struct {
	Transactions []Transaction
	Income       Money
	Expense      Money
}

// Matches reports whether tx satisfies all three filter clauses.
//
// The date clause compares against [Start 00:00:00, End 23:59:59.999…]
// so that same-day transactions at any time of day fall inside the
// window. An inverted range (Start after End) makes the clause
// structurally false for every transaction; the bounds are deliberately
// not swapped.
func (f ReportFilters) Matches(tx Transaction) bool {
	lo := startOfDay(f.Start)
	hi := endOfDay(f.End)
	if tx.Date.Before(lo) || tx.Date.After(hi) {
		return false
	}
	if f.Type != All && string(tx.Type) != f.Type {
		return false
	}
	if f.Category != All && tx.Category != f.Category {
		return false
	}
	return true
}

// FilterReport reduces a collection to the subset matching f, sorted
// ascending by date, with income/expense totals computed over the subset.
// The input slice is never mutated; zero matches yield an empty report.
func FilterReport(txs []Transaction, f ReportFilters) Report {
	var matched []Transaction
	for _, tx := range txs {
		if f.Matches(tx) {
			matched = append(matched, tx)
		}
	}
	slices.SortStableFunc(matched, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})
	totals := Summarize(matched)
	return Report{
		Transactions: matched,
		Income:       totals.TotalIncome,
		Expense:      totals.TotalExpense,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

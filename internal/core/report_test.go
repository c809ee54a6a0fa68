package core

import (
	"math/rand"
	"testing"
	"time"
)

func allFilters(start, end time.Time) ReportFilters {
	return ReportFilters{Start: start, End: end, Type: All, Category: All}
}

// Scenario: three transactions, January window, no type/category
// restriction.
func TestFilterReportDateWindow(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100, day(2024, 1, 5)),
		tx(Expense, 40, day(2024, 1, 10)),
		tx(Income, 60, day(2024, 2, 1)),
	}
	r := FilterReport(txs, allFilters(day(2024, 1, 1), day(2024, 1, 31)))
	if len(r.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(r.Transactions))
	}
	if !r.Transactions[0].Date.Equal(day(2024, 1, 5)) || !r.Transactions[1].Date.Equal(day(2024, 1, 10)) {
		t.Fatalf("unexpected order: %v, %v", r.Transactions[0].Date, r.Transactions[1].Date)
	}
	if r.Income.Cents != 100 || r.Expense.Cents != 40 {
		t.Fatalf("unexpected totals: income=%d expense=%d", r.Income.Cents, r.Expense.Cents)
	}
}

func TestFilterReportTypeRestriction(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100, day(2024, 1, 5)),
		tx(Expense, 40, day(2024, 1, 10)),
		tx(Income, 60, day(2024, 2, 1)),
	}
	f := allFilters(day(2024, 1, 1), day(2024, 1, 31))
	f.Type = string(Income)
	r := FilterReport(txs, f)
	if len(r.Transactions) != 1 || !r.Transactions[0].Date.Equal(day(2024, 1, 5)) {
		t.Fatalf("expected only the Jan-05 income, got %d transactions", len(r.Transactions))
	}
	if r.Income.Cents != 100 || r.Expense.Cents != 0 {
		t.Fatalf("unexpected totals: income=%d expense=%d", r.Income.Cents, r.Expense.Cents)
	}
}

func TestFilterReportCategoryRestriction(t *testing.T) {
	a := tx(Expense, 10, day(2024, 1, 2))
	a.Category = "Rent"
	b := tx(Expense, 20, day(2024, 1, 3))
	b.Category = "Groceries"
	c := tx(Expense, 30, day(2024, 1, 4))
	c.Category = "" // unrecognized, still passes the wildcard

	f := allFilters(day(2024, 1, 1), day(2024, 1, 31))
	f.Category = "Rent"
	r := FilterReport([]Transaction{a, b, c}, f)
	if len(r.Transactions) != 1 || r.Transactions[0].Category != "Rent" {
		t.Fatalf("expected only the Rent transaction, got %+v", r.Transactions)
	}

	// Exact, case-sensitive match: no normalization.
	f.Category = "rent"
	if r := FilterReport([]Transaction{a, b, c}, f); len(r.Transactions) != 0 {
		t.Fatalf("category match must be case-sensitive, got %d matches", len(r.Transactions))
	}

	// Wildcard bypasses the comparison entirely, empty category included.
	f.Category = All
	if r := FilterReport([]Transaction{a, b, c}, f); len(r.Transactions) != 3 {
		t.Fatalf("wildcard expected 3 matches, got %d", len(r.Transactions))
	}
}

// The end boundary extends to the last instant of End's calendar day:
// a 23:00 transaction on the end date is in, 00:01 the next day is out.
func TestFilterReportEndOfDayBoundary(t *testing.T) {
	late := tx(Expense, 10, time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC))
	next := tx(Expense, 20, time.Date(2024, 1, 11, 0, 1, 0, 0, time.UTC))

	f := allFilters(day(2024, 1, 10), day(2024, 1, 10))
	r := FilterReport([]Transaction{late, next}, f)
	if len(r.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(r.Transactions))
	}
	if !r.Transactions[0].Date.Equal(late.Date) {
		t.Fatalf("expected the 23:00 transaction, got %v", r.Transactions[0].Date)
	}
}

func TestFilterReportStartOfDayBoundary(t *testing.T) {
	midnight := tx(Income, 10, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	f := allFilters(time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC), day(2024, 1, 12))
	// Start is truncated to its calendar day, so a midnight transaction
	// on the start date is included even when Start carries a time.
	r := FilterReport([]Transaction{midnight}, f)
	if len(r.Transactions) != 1 {
		t.Fatalf("expected the midnight transaction to match, got %d", len(r.Transactions))
	}
}

// Inverted ranges empty the result naturally; the bounds must not be
// swapped to "fix" the query.
func TestFilterReportInvertedRange(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100, day(2024, 1, 5)),
		tx(Expense, 40, day(2024, 1, 10)),
	}
	r := FilterReport(txs, allFilters(day(2024, 2, 1), day(2024, 1, 1)))
	if len(r.Transactions) != 0 {
		t.Fatalf("inverted range must match nothing, got %d", len(r.Transactions))
	}
	if r.Income.Cents != 0 || r.Expense.Cents != 0 {
		t.Fatalf("inverted range totals must be zero, got %+v", r)
	}
}

func TestFilterReportEmptyCollection(t *testing.T) {
	r := FilterReport(nil, allFilters(day(2024, 1, 1), day(2024, 12, 31)))
	if len(r.Transactions) != 0 || r.Income.Cents != 0 || r.Expense.Cents != 0 {
		t.Fatalf("expected empty report, got %+v", r)
	}
}

func TestFilterReportSortsAscending(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var txs []Transaction
	for i := 0; i < 200; i++ {
		txs = append(txs, tx(Expense, 1, time.Date(2024, 1, 1+rng.Intn(28), rng.Intn(24), rng.Intn(60), 0, 0, time.UTC)))
	}
	r := FilterReport(txs, allFilters(day(2024, 1, 1), day(2024, 1, 31)))
	for i := 1; i < len(r.Transactions); i++ {
		if r.Transactions[i].Date.Before(r.Transactions[i-1].Date) {
			t.Fatalf("not sorted at index %d: %v before %v", i, r.Transactions[i].Date, r.Transactions[i-1].Date)
		}
	}
}

// Soundness and completeness: every returned element satisfies the
// predicate, and every input element satisfying it is returned.
func TestFilterReportPredicateSoundComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cats := []string{"Rent", "Groceries", "Salary", ""}
	var txs []Transaction
	for i := 0; i < 300; i++ {
		typ := Income
		if rng.Intn(2) == 0 {
			typ = Expense
		}
		x := tx(typ, rng.Int63n(5000)+1, time.Date(2024, time.Month(1+rng.Intn(3)), 1+rng.Intn(28), rng.Intn(24), 0, 0, 0, time.UTC))
		x.Category = cats[rng.Intn(len(cats))]
		txs = append(txs, x)
	}

	filters := []ReportFilters{
		allFilters(day(2024, 1, 15), day(2024, 2, 15)),
		{Start: day(2024, 1, 1), End: day(2024, 3, 31), Type: string(Expense), Category: All},
		{Start: day(2024, 1, 1), End: day(2024, 3, 31), Type: All, Category: "Rent"},
		{Start: day(2024, 2, 1), End: day(2024, 2, 28), Type: string(Income), Category: "Salary"},
	}
	for fi, f := range filters {
		r := FilterReport(txs, f)
		for _, got := range r.Transactions {
			if !f.Matches(got) {
				t.Fatalf("filter %d returned non-matching transaction %+v", fi, got)
			}
		}
		want := 0
		for _, x := range txs {
			if f.Matches(x) {
				want++
			}
		}
		if want != len(r.Transactions) {
			t.Fatalf("filter %d: expected %d matches, got %d", fi, want, len(r.Transactions))
		}
	}
}

// Totals consistency: report totals equal Summarize over the filtered
// sequence, never over the whole collection.
func TestFilterReportTotalsConsistency(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100, day(2024, 1, 5)),
		tx(Expense, 40, day(2024, 1, 10)),
		tx(Income, 60, day(2024, 2, 1)),
		tx(Expense, 25, day(2024, 2, 2)),
	}
	f := allFilters(day(2024, 1, 1), day(2024, 1, 31))
	r := FilterReport(txs, f)
	s := Summarize(r.Transactions)
	if r.Income != s.TotalIncome || r.Expense != s.TotalExpense {
		t.Fatalf("report totals %+v disagree with Summarize %+v", r, s)
	}
	whole := Summarize(txs)
	if r.Income == whole.TotalIncome && r.Expense == whole.TotalExpense {
		t.Fatalf("report totals must be scoped to the subset, not the whole collection")
	}
}

func TestFilterReportDoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100, day(2024, 1, 10)),
		tx(Expense, 40, day(2024, 1, 5)),
	}
	before := append([]Transaction(nil), txs...)
	FilterReport(txs, allFilters(day(2024, 1, 1), day(2024, 1, 31)))
	for i := range txs {
		if txs[i] != before[i] {
			t.Fatalf("input order mutated at index %d", i)
		}
	}
}

func TestDefaultReportFilters(t *testing.T) {
	now := time.Date(2024, 3, 17, 14, 5, 0, 0, time.UTC)
	f := DefaultReportFilters(now)
	if !f.Start.Equal(day(2024, 3, 1)) {
		t.Fatalf("expected start at first of month, got %v", f.Start)
	}
	if !f.End.Equal(now) {
		t.Fatalf("expected end at now, got %v", f.End)
	}
	if f.Type != All || f.Category != All {
		t.Fatalf("expected unrestricted dimensions, got %+v", f)
	}
}

// Package report serializes computed reports for export. The report
// itself is produced by core.FilterReport; this package trusts the
// ordering and totals it receives and never re-derives them.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"cashflow/internal/core"
)

var csvHeader = []string{"Date", "Description", "Type", "Category", "Amount"}

// WriteCSV renders a filtered report as CSV: one row per transaction in
// the order given, followed by income/expense/balance total rows.
func WriteCSV(w io.Writer, r core.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range r.Transactions {
		row := []string{
			tx.Date.Format(time.DateOnly),
			tx.Description,
			string(tx.Type),
			tx.Category,
			tx.Amount.Decimal(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	totals := [][]string{
		{"", "", "", "Total Income", r.Income.Decimal()},
		{"", "", "", "Total Expense", r.Expense.Decimal()},
		{"", "", "", "Balance", core.Money{Cents: r.Income.Cents - r.Expense.Cents}.Decimal()},
	}
	for _, row := range totals {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv totals: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns a dated attachment name for a CSV export.
func Filename(now time.Time) string {
	return "cashflow_report_" + now.Format("20060102") + ".csv"
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cashflow/internal/core"
)

const dateLayout = "2006-01-02"

// createTransactionRequest is the JSON body for POST /api/transactions.
// Amount is a decimal string so clients never deal in float cents.
type createTransactionRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// parseCreateTransaction decodes and converts the request body into a
// domain transaction. Validation beyond parsing belongs to
// core.Transaction.Validate.
func parseCreateTransaction(r *http.Request) (core.Transaction, error) {
	var req createTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid request body: %w", err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date %q: expected %s", req.Date, dateLayout)
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q: %w", req.Amount, err)
	}

	return core.Transaction{
		Date:        date,
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(strings.TrimSpace(req.Type)),
		Category:    sanitizeInput(req.Category),
	}, nil
}

// parseReportFilters reads the filter query parameters, falling back to
// the default window (first of the current month through today) for
// whatever is absent. Start and end are calendar dates; an inverted
// range is accepted as-is and yields an empty report downstream.
func parseReportFilters(r *http.Request, now time.Time) (core.ReportFilters, error) {
	f := core.DefaultReportFilters(now)
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		start, err := parseDate(v)
		if err != nil {
			return core.ReportFilters{}, fmt.Errorf("invalid start date %q: expected %s", v, dateLayout)
		}
		f.Start = start
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		end, err := parseDate(v)
		if err != nil {
			return core.ReportFilters{}, fmt.Errorf("invalid end date %q: expected %s", v, dateLayout)
		}
		f.End = end
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		switch v {
		case core.All, string(core.Income), string(core.Expense):
			f.Type = v
		default:
			return core.ReportFilters{}, fmt.Errorf("invalid type %q: must be one of [all income expense]", v)
		}
	}
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		f.Category = v
	}

	return f, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"cashflow/internal/core"
)

// Wire representations. Money travels both as a decimal string for
// display and as integer cents for arithmetic-safe clients.

type transactionResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

type summaryResponse struct {
	TotalIncome       string `json:"total_income"`
	TotalIncomeCents  int64  `json:"total_income_cents"`
	TotalExpense      string `json:"total_expense"`
	TotalExpenseCents int64  `json:"total_expense_cents"`
	Balance           string `json:"balance"`
	BalanceCents      int64  `json:"balance_cents"`
}

type reportResponse struct {
	Start        string                `json:"start"`
	End          string                `json:"end"`
	Type         string                `json:"type"`
	Category     string                `json:"category"`
	Transactions []transactionResponse `json:"transactions"`
	Income       string                `json:"income"`
	IncomeCents  int64                 `json:"income_cents"`
	Expense      string                `json:"expense"`
	ExpenseCents int64                 `json:"expense_cents"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.RFC3339),
		Description: tx.Description,
		Amount:      tx.Amount.Decimal(),
		AmountCents: tx.Amount.Cents,
		Type:        string(tx.Type),
		Category:    tx.Category,
	}
}

func toSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:       s.TotalIncome.Decimal(),
		TotalIncomeCents:  s.TotalIncome.Cents,
		TotalExpense:      s.TotalExpense.Decimal(),
		TotalExpenseCents: s.TotalExpense.Cents,
		Balance:           s.Balance.Decimal(),
		BalanceCents:      s.Balance.Cents,
	}
}

func toReportResponse(r core.Report, f core.ReportFilters) reportResponse {
	resp := reportResponse{
		Start:        f.Start.Format(dateLayout),
		End:          f.End.Format(dateLayout),
		Type:         f.Type,
		Category:     f.Category,
		Transactions: make([]transactionResponse, 0, len(r.Transactions)),
		Income:       r.Income.Decimal(),
		IncomeCents:  r.Income.Cents,
		Expense:      r.Expense.Decimal(),
		ExpenseCents: r.Expense.Cents,
	}
	for _, tx := range r.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

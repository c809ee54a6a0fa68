package core

// Summary holds whole-collection totals. Balance is always
// TotalIncome - TotalExpense; it is derived, never stored.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	Balance      Money
}

// Summarize reduces a collection of transactions to income/expense/balance
// totals. The input is never mutated and the result does not depend on
// ordering. An empty collection yields the zero summary.
func Summarize(txs []Transaction) Summary {
	var income, expense int64
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			income += tx.Amount.Cents
		case Expense:
			expense += tx.Amount.Cents
		}
	}
	return Summary{
		TotalIncome:  Money{Cents: income},
		TotalExpense: Money{Cents: expense},
		Balance:      Money{Cents: income - expense},
	}
}

package client

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ViewFilter narrows an already fetched list. Kind "" or "all" keeps every
// kind; Category and Search are case-insensitive substrings.
type ViewFilter struct {
	Kind     string
	Category string
	Search   string
}

type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

func FilterTransactions(transactions []Transaction, filter ViewFilter) []Transaction {
	category := strings.ToLower(filter.Category)
	search := strings.ToLower(filter.Search)

	filtered := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if filter.Kind != "" && filter.Kind != "all" && tx.Type != filter.Kind {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(tx.Category), category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Note), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// ComputeTotals sums income and expense amounts. Net is income minus expense.
func ComputeTotals(transactions []Transaction) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range transactions {
		switch tx.Type {
		case "income":
			totals.Income = totals.Income.Add(tx.Amount.Decimal)
		case "expense":
			totals.Expense = totals.Expense.Add(tx.Amount.Decimal)
		}
	}
	totals.Net = totals.Income.Sub(totals.Expense)
	return totals
}

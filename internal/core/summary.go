package core

import "github.com/shopspring/decimal"

// SummaryLabel prefixes the formatted total on the list screen.
const SummaryLabel = "Expense Summary         Total charge: "

// Summary is the aggregate shown above the expense list.
type Summary struct {
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
}

// NewSummary formats total with the given currency symbol.
func NewSummary(count int, total decimal.Decimal, symbol string) Summary {
	return Summary{
		Count:     count,
		Total:     total,
		Formatted: FormatCurrency(total, symbol),
	}
}

// Text is the single-line summary, e.g.
// "Expense Summary         Total charge: $12.50".
func (s Summary) Text() string {
	return SummaryLabel + s.Formatted
}

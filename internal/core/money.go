// Package core provides the expense record and amount handling.
//
// This file contains the helpers a presentation layer uses around the
// collection: turning typed amount text into a decimal, and rendering a
// total as currency text. The collection itself never calls them.
package core

import (
	"errors"
	"strings"
	"unicode"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// DefaultCurrencySymbol is used when no symbol is configured.
const DefaultCurrencySymbol = "$"

// ParseAmount converts user-entered text to a signed decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, an
// optional leading sign and surrounding spaces. Exponents, grouping
// separators and any other characters are rejected.
//
// Examples:
//
//	ParseAmount("3.50")  -> 3.5
//	ParseAmount("3,50")  -> 3.5
//	ParseAmount("-2")    -> -2
//	ParseAmount("abc")   -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	sign := ""
	switch s[0] {
	case '-':
		sign = "-"
		s = s[1:]
	case '+':
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return decimal.Zero, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}

	normalized := sign + intPart
	if fracPart != "" {
		normalized += "." + fracPart
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// FormatCurrency renders an amount as currency text with two decimals,
// half-up rounding and comma thousands separators (e.g. "$1,234.50",
// "-$3.00"). An empty symbol falls back to DefaultCurrencySymbol.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	// FormatMoneyDecimal fills in defaults on its receiver, so each call
	// gets its own formatter.
	ac := accounting.Accounting{
		Symbol:         symbol,
		Precision:      2,
		Thousand:       ",",
		Decimal:        ".",
		Format:         "%s%v",
		FormatNegative: "-%s%v",
		FormatZero:     "%s%v",
	}
	return ac.FormatMoneyDecimal(amount)
}

// Package currency converts amounts between currencies through a common
// reference currency.
package currency

import "github.com/shopspring/decimal"

// Rate describes one supported currency.
type Rate struct {
	Code        string
	DisplayName string
	Symbol      string

	// RateToReference is how many reference units one unit of Code buys.
	RateToReference decimal.Decimal
}

// RateProvider supplies the rate table. Implementations must return a table
// that is not mutated after it is handed out.
type RateProvider interface {
	Rates() map[string]Rate
}

// StaticRates is an immutable in-process rate table keyed by code.
type StaticRates map[string]Rate

// Rates implements RateProvider.
func (s StaticRates) Rates() map[string]Rate {
	return s
}

// DefaultRates returns the built-in table, referenced to USD.
func DefaultRates() StaticRates {
	return StaticRates{
		"USD": {Code: "USD", DisplayName: "US Dollar", Symbol: "$", RateToReference: decimal.NewFromInt(1)},
		"EUR": {Code: "EUR", DisplayName: "Euro", Symbol: "€", RateToReference: decimal.RequireFromString("1.08")},
		"GBP": {Code: "GBP", DisplayName: "British Pound", Symbol: "£", RateToReference: decimal.RequireFromString("1.27")},
		"INR": {Code: "INR", DisplayName: "Indian Rupee", Symbol: "₹", RateToReference: decimal.RequireFromString("0.012")},
		"JPY": {Code: "JPY", DisplayName: "Japanese Yen", Symbol: "¥", RateToReference: decimal.RequireFromString("0.0067")},
		"CAD": {Code: "CAD", DisplayName: "Canadian Dollar", Symbol: "C$", RateToReference: decimal.RequireFromString("0.74")},
		"AUD": {Code: "AUD", DisplayName: "Australian Dollar", Symbol: "A$", RateToReference: decimal.RequireFromString("0.66")},
		"CHF": {Code: "CHF", DisplayName: "Swiss Franc", Symbol: "CHF ", RateToReference: decimal.RequireFromString("1.13")},
		"CNY": {Code: "CNY", DisplayName: "Chinese Yuan", Symbol: "¥", RateToReference: decimal.RequireFromString("0.14")},
		"SGD": {Code: "SGD", DisplayName: "Singapore Dollar", Symbol: "S$", RateToReference: decimal.RequireFromString("0.74")},
		"MXN": {Code: "MXN", DisplayName: "Mexican Peso", Symbol: "MX$", RateToReference: decimal.RequireFromString("0.058")},
		"BRL": {Code: "BRL", DisplayName: "Brazilian Real", Symbol: "R$", RateToReference: decimal.RequireFromString("0.20")},
	}
}

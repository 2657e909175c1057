package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Places is the number of decimal places converted amounts are rounded to.
const Places = 2

// Converter converts amounts between the currencies of a RateProvider.
// Rounding is half away from zero, which is half-up for positive amounts.
type Converter struct {
	provider  RateProvider
	reference string
}

// NewConverter validates the provider's table and returns a Converter that
// normalises through reference.
func NewConverter(provider RateProvider, reference string) (*Converter, error) {
	reference = NormalizeCode(reference)
	rates := provider.Rates()

	ref, ok := rates[reference]
	if !ok {
		return nil, fmt.Errorf("%w: reference currency %s is not in the rate table", models.ErrUnsupportedCurrency, reference)
	}
	if !ref.RateToReference.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("reference currency %s must have rate 1, got %s", reference, ref.RateToReference)
	}
	for code, r := range rates {
		if !r.RateToReference.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", code, r.RateToReference)
		}
	}

	return &Converter{provider: provider, reference: reference}, nil
}

// Reference returns the reference currency code.
func (c *Converter) Reference() string {
	return c.reference
}

// Convert converts amount from one currency to another, rounding the result
// to two decimal places. Converting a currency to itself still rounds.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rates := c.provider.Rates()
	fromRate, err := lookup(rates, from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	toRate, err := lookup(rates, to)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if fromRate.Code == toRate.Code {
		return amount.Round(Places), nil
	}

	ref := amount.Mul(fromRate.RateToReference)
	return ref.Div(toRate.RateToReference).Round(Places), nil
}

// ToReference converts amount into the reference currency.
func (c *Converter) ToReference(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	return c.Convert(amount, code, c.reference)
}

// Normalize returns amount in the reference currency without rounding.
// Balance accumulation uses it so cent rounding happens once, at display.
func (c *Converter) Normalize(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	r, err := lookup(c.provider.Rates(), code)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Mul(r.RateToReference), nil
}

// Supported reports whether code is in the rate table.
func (c *Converter) Supported(code string) bool {
	_, ok := c.provider.Rates()[NormalizeCode(code)]
	return ok
}

// ListSupported returns every supported currency, sorted by code.
func (c *Converter) ListSupported() []Rate {
	rates := c.provider.Rates()
	out := make([]Rate, 0, len(rates))
	for _, r := range rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Details returns the metadata for code.
func (c *Converter) Details(code string) (Rate, error) {
	code = NormalizeCode(code)
	r, ok := c.provider.Rates()[code]
	if !ok {
		return Rate{}, fmt.Errorf("%w: currency %q", models.ErrNotFound, code)
	}
	return r, nil
}

// Symbol returns the display symbol for code, or the code itself.
func (c *Converter) Symbol(code string) string {
	if r, err := c.Details(code); err == nil && r.Symbol != "" {
		return r.Symbol
	}
	return NormalizeCode(code) + " "
}

func lookup(rates map[string]Rate, code string) (Rate, error) {
	code = NormalizeCode(code)
	r, ok := rates[code]
	if !ok {
		return Rate{}, fmt.Errorf("%w: %q", models.ErrUnsupportedCurrency, code)
	}
	return r, nil
}

// NormalizeCode upper-cases and trims an ISO currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

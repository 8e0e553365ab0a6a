package currency

import (
	"context"

	"github.com/shopspring/decimal"

	"commission/feecalculator/apperrors"
	"commission/feecalculator/money"
)

// RateProvider fetches the current exchange rates for symbols against base.
type RateProvider interface {
	LatestRates(ctx context.Context, base string, symbols []string) (Rates, error)
}

// Rates holds the units of each currency bought by one unit of the base
// currency. The base currency itself is implicitly 1 when absent.
type Rates map[string]decimal.Decimal

// Rate returns the rate for code relative to base.
func (r Rates) Rate(code, base string) (decimal.Decimal, error) {
	if rate, ok := r[code]; ok {
		return rate, nil
	}
	if code == base {
		return decimal.NewFromInt(1), nil
	}

	return decimal.Zero, apperrors.ExternalRateError("no rate for %s", code)
}

// Validate checks that every currency of the table has a positive rate.
func (r Rates) Validate(table Table) error {
	for _, code := range table.Codes() {
		rate, err := r.Rate(code, table.Base())
		if err != nil {
			return err
		}
		if !rate.IsPositive() {
			return apperrors.ExternalRateError("rate for %s must be positive, got %s", code, rate)
		}
	}

	return nil
}

// ToBase converts amount expressed in code into the base currency.
func (r Rates) ToBase(amount decimal.Decimal, code, base string) (decimal.Decimal, error) {
	if code == base {
		return amount, nil
	}
	rate, err := r.Rate(code, base)
	if err != nil {
		return decimal.Zero, err
	}

	return money.Div(amount, rate), nil
}

// FromBase converts amount expressed in the base currency into code.
func (r Rates) FromBase(amount decimal.Decimal, code, base string) (decimal.Decimal, error) {
	if code == base {
		return amount, nil
	}
	rate, err := r.Rate(code, base)
	if err != nil {
		return decimal.Zero, err
	}

	return money.Mul(amount, rate), nil
}

// FixedRates serves a constant rate table, used in demo mode and tests.
type FixedRates Rates

func (f FixedRates) LatestRates(_ context.Context, base string, symbols []string) (Rates, error) {
	rates := make(Rates, len(symbols))
	for _, code := range symbols {
		if code == base {
			rates[code] = decimal.NewFromInt(1)
			continue
		}
		rate, ok := f[code]
		if !ok {
			return nil, apperrors.ExternalRateError("no demo rate for %s", code)
		}
		rates[code] = rate
	}

	return rates, nil
}

// DemoRates returns the fixed EUR based rate table used by demo mode.
func DemoRates() FixedRates {
	return FixedRates{
		"EUR": decimal.NewFromInt(1),
		"USD": decimal.RequireFromString("1.1497"),
		"JPY": decimal.RequireFromString("129.53"),
	}
}

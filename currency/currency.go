// Package currency describes the accepted currencies and converts amounts
// between them using exchange rates quoted against a base currency.
package currency

import (
	"sort"
	"strings"

	"commission/feecalculator/apperrors"
)

// Table maps each accepted currency code to its number of decimal places and
// names the base currency quotas are expressed in.
type Table struct {
	base   string
	places map[string]int32
}

// NewTable builds a Table. Codes are upper-cased; the base currency must be
// one of the accepted codes and places may not be negative.
func NewTable(base string, places map[string]int32) (Table, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return Table{}, apperrors.ConfigurationError("base currency is empty")
	}

	normalized := make(map[string]int32, len(places))
	for code, p := range places {
		if p < 0 {
			return Table{}, apperrors.ConfigurationError("currency %s has negative decimal places %d", code, p)
		}
		normalized[strings.ToUpper(strings.TrimSpace(code))] = p
	}

	if _, ok := normalized[base]; !ok {
		return Table{}, apperrors.ConfigurationError("base currency %s is not an accepted currency", base)
	}

	return Table{base: base, places: normalized}, nil
}

// Base returns the base currency code.
func (t Table) Base() string {
	return t.base
}

// Places returns the decimal places of code and whether the code is accepted.
func (t Table) Places(code string) (int32, bool) {
	p, ok := t.places[code]
	return p, ok
}

// Accepts reports whether code is one of the accepted currencies. Codes are
// matched exactly, so callers upper-case input first.
func (t Table) Accepts(code string) bool {
	_, ok := t.places[code]
	return ok
}

// Codes returns the accepted currency codes in lexical order.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t.places))
	for code := range t.places {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return codes
}

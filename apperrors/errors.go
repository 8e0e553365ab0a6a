// Package apperrors defines the error kinds a fee calculation run can fail with.
// Callers match them with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInputFormat marks a CSV row that cannot be parsed into a transaction.
	ErrInputFormat = errors.New("input format error")
	// ErrUnsupportedCurrency marks a currency code missing from the currency table.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrConfiguration marks a missing or malformed fee or currency rule.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalRate marks a failure to obtain a usable exchange rate.
	ErrExternalRate = errors.New("exchange rates error")
	// ErrInputFile marks an input file that is missing or has the wrong extension.
	ErrInputFile = errors.New("input file error")
)

// InputFormatError reports a malformed row at the given source line.
func InputFormatError(line int, reason string) error {
	return fmt.Errorf("%w, line %d: %s", ErrInputFormat, line, reason)
}

// UnsupportedCurrencyError reports a currency code that is not accepted.
func UnsupportedCurrencyError(code string) error {
	return fmt.Errorf("%w, %q", ErrUnsupportedCurrency, code)
}

func ConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w, %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func ExternalRateError(format string, args ...any) error {
	return fmt.Errorf("%w, %s", ErrExternalRate, fmt.Sprintf(format, args...))
}

// WrapExternalRate attaches a transport or decoding failure to ErrExternalRate.
func WrapExternalRate(baseErr error) error {
	return fmt.Errorf("%w, %w", ErrExternalRate, baseErr)
}

func InputFileError(path, reason string) error {
	return fmt.Errorf("%w, %s: %s", ErrInputFile, path, reason)
}

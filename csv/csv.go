// Package csv turns the positional transaction CSV format into transactions:
//
//	date,customer id,customer class,kind,amount,currency
//	2016-01-05,1,private,deposit,200.00,EUR
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"commission/feecalculator/appcontext"
	"commission/feecalculator/apperrors"
	"commission/feecalculator/commission/model"
	"commission/feecalculator/currency"
	"commission/feecalculator/money"
)

const (
	colDate = iota
	colCustomerID
	colCustomerClass
	colKind
	colAmount
	colCurrency
	columnCount
)

var errUnsupportedCurrency = errors.New("currency not accepted")

// TransactionParser parses transaction files against a currency table.
// With Strict set the first malformed row aborts parsing; otherwise
// malformed rows are logged, recorded in the Result and skipped.
type TransactionParser struct {
	Currencies currency.Table
	Strict     bool
}

func NewTransactionParser(currencies currency.Table, strict bool) *TransactionParser {
	return &TransactionParser{Currencies: currencies, Strict: strict}
}

// Parse opens filePath and parses it.
func (p *TransactionParser) Parse(ctx context.Context, filePath string) (*Result, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Parsing transactions from csv", "filePath", filePath, "strict", p.Strict)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	return p.ParseReader(ctx, file)
}

// ParseReader parses transactions from r.
//
//nolint:funlen
func (p *TransactionParser) ParseReader(ctx context.Context, r io.Reader) (*Result, error) {
	logger := appcontext.LoggerFromContext(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &Result{}
	first := true

	for {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, apperrors.InputFormatError(lineOf(readErr), readErr.Error())
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				logger.DebugContext(ctx, "Skipping header row", "line", line)
				continue
			}
		}
		result.RowsRead++

		txn, rowErr := p.parseRecord(record, line)
		switch {
		case rowErr == nil:
			result.Transactions = append(result.Transactions, txn)
		case errors.Is(rowErr, errUnsupportedCurrency):
			result.SkippedCurrency++
			logger.WarnContext(ctx, "Skipping row with unsupported currency",
				"line", line, "currency", safeGet(record, colCurrency))
		case p.Strict:
			return nil, rowErr
		default:
			result.Rejected = append(result.Rejected, RowError{Line: line, Err: rowErr})
			logger.WarnContext(ctx, "Skipping invalid record", "line", line, "error", rowErr)
		}
	}

	logger.InfoContext(ctx, "Parsed transactions",
		"accepted", len(result.Transactions),
		"skippedCurrency", result.SkippedCurrency,
		"rejected", len(result.Rejected),
	)

	return result, nil
}

func (p *TransactionParser) parseRecord(record []string, line int) (model.Transaction, error) {
	if len(record) != columnCount {
		return model.Transaction{}, apperrors.InputFormatError(line,
			fmt.Sprintf("expected %d fields, got %d", columnCount, len(record)))
	}

	code := strings.ToUpper(strings.TrimSpace(record[colCurrency]))
	if !p.Currencies.Accepts(code) {
		return model.Transaction{}, fmt.Errorf("%w: %w", errUnsupportedCurrency, apperrors.UnsupportedCurrencyError(code))
	}
	places, _ := p.Currencies.Places(code)

	date, err := civil.ParseDate(strings.TrimSpace(record[colDate]))
	if err != nil {
		return model.Transaction{}, apperrors.InputFormatError(line, fmt.Sprintf("invalid date %q", record[colDate]))
	}

	customerID, err := strconv.ParseInt(strings.TrimSpace(record[colCustomerID]), 10, 64)
	if err != nil || customerID <= 0 {
		return model.Transaction{}, apperrors.InputFormatError(line,
			fmt.Sprintf("invalid customer id %q", record[colCustomerID]))
	}

	class, err := model.ParseCustomerClass(record[colCustomerClass])
	if err != nil {
		return model.Transaction{}, apperrors.InputFormatError(line, err.Error())
	}

	kind, err := model.ParseKind(record[colKind])
	if err != nil {
		return model.Transaction{}, apperrors.InputFormatError(line, err.Error())
	}

	minor, err := money.Parse(record[colAmount], places)
	if err != nil {
		return model.Transaction{}, apperrors.InputFormatError(line, err.Error())
	}

	return model.Transaction{
		Line:          line,
		Date:          date,
		CustomerID:    customerID,
		CustomerClass: class,
		Kind:          kind,
		AmountMinor:   minor,
		Currency:      code,
		DecimalPlaces: places,
	}, nil
}

// isHeader reports whether record is a column header rather than data.
func isHeader(record []string) bool {
	return strings.EqualFold(strings.TrimSpace(safeGet(record, colDate)), "date")
}

func lineOf(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Line
	}

	return 0
}

// safeGet retrieves slice[index] safely.
func safeGet(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}

	return ""
}

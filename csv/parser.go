package csv

import (
	"context"

	"commission/feecalculator/commission/model"
)

// Parser reads transactions from an input file.
type Parser interface {
	Parse(ctx context.Context, filePath string) (*Result, error)
}

// RowError is a row that was rejected in lenient mode.
type RowError struct {
	Line int
	Err  error
}

// Result is the outcome of parsing one input.
type Result struct {
	Transactions []model.Transaction
	// RowsRead counts data rows, excluding an optional header.
	RowsRead        int
	SkippedCurrency int
	Rejected        []RowError
}

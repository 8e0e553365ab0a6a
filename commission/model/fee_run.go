// Package model holds the transaction record and the audit documents written
// for a fee calculation run.
package model

import "time"

// FeeRun is a record in the feeRuns collection, one per calculate invocation.
type FeeRun struct {
	RunID          string    `bson:"run_id"`
	InputFile      string    `bson:"input_file"`
	StartedAt      time.Time `bson:"started_at"`
	FinishedAt     time.Time `bson:"finished_at"`
	RowsRead       int       `bson:"rows_read"`
	RowsSkipped    int       `bson:"rows_skipped"`
	RowsRejected   int       `bson:"rows_rejected"`
	FeesCalculated int       `bson:"fees_calculated"`
	DemoRates      bool      `bson:"demo_rates"`
	BaseCurrency   string    `bson:"base_currency"`
}

// FeeRecord is a record in the commissionFees collection.
type FeeRecord struct {
	RunID         string `bson:"run_id"`
	Line          int    `bson:"line"`
	Date          string `bson:"date"`
	CustomerID    int64  `bson:"customer_id"`
	CustomerClass string `bson:"customer_class"`
	Kind          string `bson:"kind"`
	Amount        string `bson:"amount"`
	Currency      string `bson:"currency"`
	Fee           string `bson:"fee"`
}

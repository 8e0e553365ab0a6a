// Package ingest runs a complete fee calculation over one input file.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"commission/feecalculator/appcontext"
	"commission/feecalculator/commission"
	"commission/feecalculator/commission/model"
	"commission/feecalculator/commission/repository"
	"commission/feecalculator/commission/source"
	csvparser "commission/feecalculator/csv"
	"commission/feecalculator/currency"
	"commission/feecalculator/money"
)

var errPersistFeeRun = errors.New("error persisting fee run")

// SinkDependencies holds all the dependencies for the Sink.
type SinkDependencies struct {
	Currencies currency.Table
	Rules      commission.FeeRuleTable
	Validator  source.Validator
	Parser     csvparser.Parser
	Rates      currency.RateProvider
	// Repo is optional; fee runs are only persisted when it is set.
	Repo repository.Repository
	// DemoRates is recorded on the persisted run.
	DemoRates bool
}

// Sink validates, parses and prices one input file and writes the fees.
type Sink struct {
	deps   SinkDependencies
	output io.Writer
}

// NewSink creates a new Sink writing fees to output.
func NewSink(deps SinkDependencies, output io.Writer) *Sink {
	return &Sink{
		deps:   deps,
		output: output,
	}
}

// Calculate runs the whole pipeline for filePath. Nothing is written to the
// output unless every fee could be calculated.
func (s *Sink) Calculate(ctx context.Context, filePath string) (*Stats, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Starting commission fee calculation", "file", filePath)
	startedAt := time.Now().UTC()
	stats := NewStats()

	if err := s.deps.Validator.Validate(filePath); err != nil {
		logger.ErrorContext(ctx, "Input file rejected", "file", filePath, "error", err)
		return stats, fmt.Errorf("validating input: %w", err)
	}

	base := s.deps.Currencies.Base()
	rates, err := s.deps.Rates.LatestRates(ctx, base, s.deps.Currencies.Codes())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to obtain exchange rates", "error", err)
		return stats, fmt.Errorf("loading exchange rates: %w", err)
	}

	engine, err := commission.NewEngine(commission.Settings{
		Rules:      s.deps.Rules,
		Currencies: s.deps.Currencies,
		Rates:      rates,
	})
	if err != nil {
		return stats, fmt.Errorf("configuring fee engine: %w", err)
	}

	result, err := s.deps.Parser.Parse(ctx, filePath)
	if err != nil {
		return stats, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	stats.RowsRead = result.RowsRead
	stats.Accepted = len(result.Transactions)
	stats.SkippedCurrency = result.SkippedCurrency
	for _, rejected := range result.Rejected {
		stats.AddFailure(rejected.Line, rejected.Err.Error())
	}

	fees, err := engine.Calculate(ctx, result.Transactions)
	if err != nil {
		return stats, fmt.Errorf("calculating fees: %w", err)
	}
	stats.FeesCalculated = len(fees)

	if err = commission.WriteFees(s.output, fees); err != nil {
		return stats, err
	}

	if s.deps.Repo != nil {
		run := model.FeeRun{
			RunID:          uuid.NewString(),
			InputFile:      filePath,
			StartedAt:      startedAt,
			FinishedAt:     time.Now().UTC(),
			RowsRead:       stats.RowsRead,
			RowsSkipped:    stats.SkippedCurrency,
			RowsRejected:   stats.Rejected,
			FeesCalculated: stats.FeesCalculated,
			DemoRates:      s.deps.DemoRates,
			BaseCurrency:   base,
		}
		if err = s.deps.Repo.SaveFeeRun(ctx, run, FeeRecords(run.RunID, fees)); err != nil {
			logger.ErrorContext(ctx, "Failed to persist fee run", "runID", run.RunID, "error", err)
			return stats, fmt.Errorf("%w, %w", errPersistFeeRun, err)
		}
		stats.Persisted = true
		logger.InfoContext(ctx, "Persisted fee run", "runID", run.RunID, "fees", len(fees))
	}

	logger.InfoContext(ctx, "Commission fee calculation completed successfully.")

	return stats, nil
}

// FeeRecords converts calculated fees into audit documents.
func FeeRecords(runID string, fees []commission.Fee) []model.FeeRecord {
	records := make([]model.FeeRecord, len(fees))
	for i, fee := range fees {
		txn := fee.Transaction
		records[i] = model.FeeRecord{
			RunID:         runID,
			Line:          txn.Line,
			Date:          txn.Date.String(),
			CustomerID:    txn.CustomerID,
			CustomerClass: txn.CustomerClass.String(),
			Kind:          txn.Kind.String(),
			Amount:        money.Format(txn.Amount(), txn.DecimalPlaces),
			Currency:      txn.Currency,
			Fee:           fee.String(),
		}
	}

	return records
}

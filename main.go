// main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	charmlog "github.com/charmbracelet/log"

	apiclient "commission/feecalculator/apiClient"
	"commission/feecalculator/appcontext"
	"commission/feecalculator/apperrors"
	"commission/feecalculator/commission/source"
	"commission/feecalculator/config"
	csvparser "commission/feecalculator/csv"
	"commission/feecalculator/currency"
	"commission/feecalculator/ingest"
	"commission/feecalculator/storage"
	"commission/feecalculator/synthetic"
)

const envLogLevel = "LOG_LEVEL"

func main() {
	// Logs go to stderr so stdout carries nothing but the fees.
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix:          "feecalc",
		ReportTimestamp: true,
		Level:           charmlog.InfoLevel,
	})
	logger := slog.New(handler)

	if len(os.Args) < 2 {
		logger.Error("Usage: feecalc <calculate|generate-synthetic-data> [options]")
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := run(handler, logger, command, args); err != nil {
		logger.Error("Application terminated with an error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(handler *charmlog.Logger, logger *slog.Logger, command string, args []string) error {
	ctx := appcontext.WithLogger(context.Background(), logger)

	config.LoadEnv(ctx, logger)
	if raw := os.Getenv(envLogLevel); raw != "" {
		level, err := charmlog.ParseLevel(raw)
		if err != nil {
			logger.WarnContext(ctx, "Invalid log level, keeping info", "value", raw)
		} else {
			handler.SetLevel(level)
		}
	}

	cfg := config.LoadConfig(ctx, logger)
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	switch command {
	case "calculate":
		return runCalculate(ctx, logger, args, cfg)
	case "generate-synthetic-data":
		settings, err := config.LoadFeeSettings(ctx, logger, cfg.FeeConfigPath)
		if err != nil {
			return err
		}
		table, err := settings.CurrencyTable()
		if err != nil {
			return err
		}
		return synthetic.RunGenerateSyntheticData(ctx, logger, args, cfg, table)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runCalculate implements `calculate [flags] <file> [demo]`.
func runCalculate(ctx context.Context, logger *slog.Logger, args []string, cfg *config.Config) error {
	calcFlagSet := flag.NewFlagSet("calculate", flag.ContinueOnError)
	demo := calcFlagSet.Bool("demo", false, "Use the built-in exchange rates instead of the rates API")
	strict := calcFlagSet.Bool("strict", cfg.StrictRows, "Abort on the first malformed row")
	persist := calcFlagSet.Bool("persist", cfg.PersistFees, "Store the run and its fees in MongoDB")
	feeConfig := calcFlagSet.String("config", cfg.FeeConfigPath, "Path to a YAML fee table")
	if err := calcFlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if calcFlagSet.NArg() < 1 {
		return apperrors.InputFileError("", "usage: calculate [flags] <file> [demo]")
	}
	filePath := calcFlagSet.Arg(0)
	if calcFlagSet.NArg() > 1 {
		positionalDemo, err := strconv.ParseBool(calcFlagSet.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid demo mode argument %q: %w", calcFlagSet.Arg(1), err)
		}
		*demo = *demo || positionalDemo
	}
	cfg.DemoRates = *demo
	cfg.StrictRows = *strict
	cfg.PersistFees = *persist
	cfg.FeeConfigPath = *feeConfig

	settings, err := config.LoadFeeSettings(ctx, logger, cfg.FeeConfigPath)
	if err != nil {
		return err
	}
	table, err := settings.CurrencyTable()
	if err != nil {
		return err
	}
	rules, err := settings.RuleTable()
	if err != nil {
		return err
	}

	var rates currency.RateProvider = currency.DemoRates()
	if !cfg.DemoRates {
		client, clientErr := apiclient.NewAPIClient(
			&http.Client{Timeout: cfg.Timeout}, cfg.ExchangeAPIEndpoint, cfg.ExchangeAPIKey)
		if clientErr != nil {
			return apperrors.WrapExternalRate(clientErr)
		}
		rates = client
	}

	deps := ingest.SinkDependencies{
		Currencies: table,
		Rules:      rules,
		Validator:  source.NewFileValidator(cfg.InputExtension),
		Parser:     csvparser.NewTransactionParser(table, cfg.StrictRows),
		Rates:      rates,
		DemoRates:  cfg.DemoRates,
	}

	if cfg.PersistFees {
		store, connErr := storage.OpenFeeRunStore(ctx, cfg.MongoURI)
		if connErr != nil {
			logger.ErrorContext(ctx, "Failed to connect to MongoDB", "error", connErr)
			return fmt.Errorf("connection to MongoDB failed: %w", connErr)
		}
		defer func() {
			if deferErr := store.Close(ctx); deferErr != nil {
				logger.ErrorContext(ctx, "Error disconnecting from MongoDB", "error", deferErr)
			}
		}()
		deps.Repo = storage.NewMongoRepository(store)
	}

	stats, err := ingest.NewSink(deps, os.Stdout).Calculate(ctx, filePath)
	if stats != nil {
		stats.Log(logger)
	}

	return err
}

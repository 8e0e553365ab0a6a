// Package synthetic writes random transaction files for trying the
// calculator out and for load testing.
package synthetic

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"commission/feecalculator/config"
	"commission/feecalculator/currency"
)

// RunGenerateSyntheticData parses the generate-synthetic-data flags and writes the file.
func RunGenerateSyntheticData(
	ctx context.Context,
	logger *slog.Logger,
	args []string,
	cfg *config.Config,
	currencies currency.Table,
) error {
	genFlagSet := flag.NewFlagSet("generate-synthetic-data", flag.ContinueOnError)
	rows := genFlagSet.Int("rows", cfg.SyntheticDataRows, "Number of rows to generate")
	dir := genFlagSet.String("dir", cfg.SyntheticDataDir, "Directory to write synthetic data to")
	seed := genFlagSet.Int64("seed", time.Now().UnixNano(), "Random seed, fix it for reproducible files")
	startFlag := genFlagSet.String("start", "2016-01-04", "Date of the first transaction (YYYY-MM-DD)")
	if err := genFlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	start, err := civil.ParseDate(*startFlag)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", *startFlag, err)
	}

	logger.InfoContext(ctx, "Generating synthetic data", "rows", *rows, "dir", *dir, "seed", *seed)
	path, err := GenerateSyntheticData(NewGenerator(*seed, currencies, start), *rows, *dir)
	if err != nil {
		return fmt.Errorf("failed to generate synthetic data: %w", err)
	}
	logger.InfoContext(ctx, "Synthetic data generated successfully", "file", path)

	return nil
}

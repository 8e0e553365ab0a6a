package synthetic

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"commission/feecalculator/commission/model"
	"commission/feecalculator/currency"
)

const (
	// FileName is the name of the generated input file.
	FileName          = "synthetic-transactions.csv"
	customerCount     = 10
	maxAmountMinor    = 200000
	withdrawPercent   = 70
	maxDaysBetweenRow = 2
)

// Generator produces random but well formed transaction rows. Rows are in
// date order and each customer keeps one class.
type Generator struct {
	rng        *rand.Rand
	currencies currency.Table
	start      civil.Date
	classes    map[int64]model.CustomerClass
}

func NewGenerator(seed int64, currencies currency.Table, start civil.Date) *Generator {
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // test data only
		currencies: currencies,
		start:      start,
		classes:    make(map[int64]model.CustomerClass),
	}
}

// Write writes rows transaction rows to w.
func (g *Generator) Write(w io.Writer, rows int) error {
	writer := csv.NewWriter(w)
	codes := g.currencies.Codes()
	date := g.start

	for i := 0; i < rows; i++ {
		date = date.AddDays(g.rng.Intn(maxDaysBetweenRow + 1))
		customerID := int64(g.rng.Intn(customerCount) + 1)

		kind := model.Deposit
		if g.rng.Intn(100) < withdrawPercent {
			kind = model.Withdraw
		}

		code := codes[g.rng.Intn(len(codes))]
		places, _ := g.currencies.Places(code)
		amount := decimal.New(g.rng.Int63n(maxAmountMinor)+1, -places)

		row := []string{
			date.String(),
			fmt.Sprintf("%d", customerID),
			g.classOf(customerID).String(),
			kind.String(),
			amount.StringFixed(places),
			code,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}

	return nil
}

func (g *Generator) classOf(customerID int64) model.CustomerClass {
	class, ok := g.classes[customerID]
	if !ok {
		classes := model.CustomerClasses()
		class = classes[g.rng.Intn(len(classes))]
		g.classes[customerID] = class
	}

	return class
}

// GenerateSyntheticData writes a synthetic input file into dir and returns its path.
func GenerateSyntheticData(g *Generator, rows int, dir string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	filePath := filepath.Join(dir, FileName)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file '%s': %w", filePath, err)
	}
	defer file.Close()

	if err := g.Write(file, rows); err != nil {
		return "", err
	}

	return filePath, nil
}

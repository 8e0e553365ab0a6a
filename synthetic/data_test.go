package synthetic

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission/feecalculator/config"
	csvparser "commission/feecalculator/csv"
	"commission/feecalculator/currency"
)

func testTable(t *testing.T) currency.Table {
	t.Helper()
	table, err := currency.NewTable("EUR", map[string]int32{"EUR": 2, "USD": 2, "JPY": 0})
	require.NoError(t, err)
	return table
}

func testStart() civil.Date {
	return civil.Date{Year: 2016, Month: 1, Day: 4}
}

func TestGeneratorOutputParses(t *testing.T) {
	table := testTable(t)
	var buf bytes.Buffer
	require.NoError(t, NewGenerator(42, table, testStart()).Write(&buf, 200))

	result, err := csvparser.NewTransactionParser(table, true).ParseReader(context.Background(), &buf)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 200)

	classes := make(map[int64]string)
	for i, txn := range result.Transactions {
		if i > 0 {
			assert.False(t, txn.Date.Before(result.Transactions[i-1].Date), "rows must be in date order")
		}
		if prev, ok := classes[txn.CustomerID]; ok {
			assert.Equal(t, prev, txn.CustomerClass.String(), "customer %d changed class", txn.CustomerID)
		}
		classes[txn.CustomerID] = txn.CustomerClass.String()
		assert.Positive(t, txn.AmountMinor)
	}
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, NewGenerator(7, testTable(t), testStart()).Write(&first, 50))
	require.NoError(t, NewGenerator(7, testTable(t), testStart()).Write(&second, 50))

	assert.Equal(t, first.String(), second.String())
}

func TestRunGenerateSyntheticData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{SyntheticDataRows: 5, SyntheticDataDir: dir}

	err := RunGenerateSyntheticData(context.Background(), logger, []string{"-seed", "1"}, cfg, testTable(t))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)

	err = RunGenerateSyntheticData(context.Background(), logger, []string{"-start", "yesterday"}, cfg, testTable(t))
	assert.Error(t, err)
}

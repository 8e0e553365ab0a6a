package commission

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission/feecalculator/currency"
)

func TestWeekOf(t *testing.T) {
	tests := []struct {
		date      string
		wantStart string
		wantEnd   string
	}{
		{"2016-01-04", "2016-01-04", "2016-01-10"}, // Monday
		{"2016-01-10", "2016-01-04", "2016-01-10"}, // Sunday
		{"2014-12-31", "2014-12-29", "2015-01-04"}, // spans a year boundary
		{"2016-02-29", "2016-02-29", "2016-03-06"},
	}

	for _, tt := range tests {
		d, err := civil.ParseDate(tt.date)
		require.NoError(t, err)

		week := WeekOf(d)
		assert.Equal(t, tt.wantStart, week.Start.String(), tt.date)
		assert.Equal(t, tt.wantEnd, week.End.String(), tt.date)
		assert.True(t, week.Contains(d))
		assert.False(t, week.Contains(week.End.AddDays(1)))
		assert.False(t, week.Contains(week.Start.AddDays(-1)))
	}
}

func TestLedgerOnlyCountsConsumedWithdrawals(t *testing.T) {
	ledger := NewLedger("EUR", currency.Rates(currency.DemoRates()))

	first := ledger.Append(txn(t, 1, "2016-01-04", 1, "private", "withdraw", "100.00", "EUR"))
	ledger.Append(txn(t, 2, "2016-01-04", 1, "private", "deposit", "500.00", "EUR"))
	third := ledger.Append(txn(t, 3, "2016-01-05", 1, "private", "withdraw", "50.00", "EUR"))

	d, _ := civil.ParseDate("2016-01-05")
	week := WeekOf(d)

	usage, err := ledger.Usage(1, week)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Count)
	assert.True(t, usage.Sum.IsZero())

	usage, err = ledger.Consume(first)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Count, "a withdrawal never sees itself")

	usage, err = ledger.Consume(third)
	require.NoError(t, err)
	assert.Equal(t, 1, usage.Count)
	assert.Equal(t, "100", usage.Sum.String())

	usage, err = ledger.Usage(1, week)
	require.NoError(t, err)
	assert.Equal(t, 2, usage.Count)
	assert.Equal(t, "150", usage.Sum.String())
}

func TestLedgerFiltersCustomerAndWeek(t *testing.T) {
	ledger := NewLedger("EUR", currency.Rates(currency.DemoRates()))

	for _, i := range []int{
		ledger.Append(txn(t, 1, "2016-01-03", 1, "private", "withdraw", "100.00", "EUR")),
		ledger.Append(txn(t, 2, "2016-01-04", 2, "private", "withdraw", "100.00", "EUR")),
		ledger.Append(txn(t, 3, "2016-01-11", 1, "private", "withdraw", "100.00", "EUR")),
		ledger.Append(txn(t, 4, "2016-01-06", 1, "private", "withdraw", "30000", "JPY")),
	} {
		_, err := ledger.Consume(i)
		require.NoError(t, err)
	}

	d, _ := civil.ParseDate("2016-01-07")
	usage, err := ledger.Usage(1, WeekOf(d))
	require.NoError(t, err)

	assert.Equal(t, 1, usage.Count)
	// 30000 JPY at 129.53, truncated to ten digits.
	assert.Equal(t, "231.6065776268", usage.Sum.String())
}

package commission

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"commission/feecalculator/commission/model"
	"commission/feecalculator/currency"
	"commission/feecalculator/money"
)

func testTable(t *testing.T) currency.Table {
	t.Helper()
	table, err := currency.NewTable("EUR", map[string]int32{"EUR": 2, "USD": 2, "JPY": 0})
	require.NoError(t, err)
	return table
}

func testRules(t *testing.T, privateQuota string) FeeRuleTable {
	t.Helper()
	rules, err := NewFeeRuleTable(
		map[model.CustomerClass]DepositRule{
			model.Private:  {FeePercent: decimal.RequireFromString("0.03")},
			model.Business: {FeePercent: decimal.RequireFromString("0.03")},
		},
		map[model.CustomerClass]WithdrawRule{
			model.Private: {
				FreeQuota:        decimal.RequireFromString(privateQuota),
				FreeTransactions: 3,
				FeePercent:       decimal.RequireFromString("0.3"),
			},
			model.Business: {
				FreeQuota:        decimal.Zero,
				FreeTransactions: 0,
				FeePercent:       decimal.RequireFromString("0.5"),
			},
		},
	)
	require.NoError(t, err)
	return rules
}

func testEngine(t *testing.T, privateQuota string) *Engine {
	t.Helper()
	engine, err := NewEngine(Settings{
		Rules:      testRules(t, privateQuota),
		Currencies: testTable(t),
		Rates:      currency.Rates(currency.DemoRates()),
	})
	require.NoError(t, err)
	return engine
}

// txn builds a transaction from its CSV spelling.
func txn(t *testing.T, line int, date string, customer int64, class, kind, amount, code string) model.Transaction {
	t.Helper()

	d, err := civil.ParseDate(date)
	require.NoError(t, err)
	c, err := model.ParseCustomerClass(class)
	require.NoError(t, err)
	k, err := model.ParseKind(kind)
	require.NoError(t, err)

	places, ok := testTable(t).Places(code)
	require.True(t, ok, "currency %s", code)
	minor, err := money.Parse(amount, places)
	require.NoError(t, err)

	return model.Transaction{
		Line:          line,
		Date:          d,
		CustomerID:    customer,
		CustomerClass: c,
		Kind:          k,
		AmountMinor:   minor,
		Currency:      code,
		DecimalPlaces: places,
	}
}

func feeStrings(fees []Fee) []string {
	out := make([]string, len(fees))
	for i, f := range fees {
		out[i] = f.String()
	}
	return out
}

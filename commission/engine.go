// Package commission computes commission fees for deposits and withdrawals.
//
// Deposits pay a flat percentage. Withdrawals are free up to a weekly quota
// and a weekly number of transactions per customer; the part of a withdrawal
// above the quota is charged a percentage. Weeks run Monday to Sunday.
package commission

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"commission/feecalculator/appcontext"
	"commission/feecalculator/apperrors"
	"commission/feecalculator/commission/model"
	"commission/feecalculator/currency"
	"commission/feecalculator/money"
)

// Settings is the immutable configuration an Engine works from.
type Settings struct {
	Rules      FeeRuleTable
	Currencies currency.Table
	Rates      currency.Rates
}

// Engine calculates fees. It holds no per-run state, so one Engine can
// calculate any number of inputs.
type Engine struct {
	settings Settings
}

// NewEngine checks that the rates cover every accepted currency.
func NewEngine(settings Settings) (*Engine, error) {
	if len(settings.Currencies.Codes()) == 0 {
		return nil, apperrors.ConfigurationError("no accepted currencies")
	}
	if err := settings.Rates.Validate(settings.Currencies); err != nil {
		return nil, err
	}

	return &Engine{settings: settings}, nil
}

// Fee is the commission charged for one transaction.
type Fee struct {
	Transaction model.Transaction
	Amount      decimal.Decimal
}

// String formats the fee with the transaction currency's decimal places.
func (f Fee) String() string {
	return money.Format(f.Amount, f.Transaction.DecimalPlaces)
}

// Calculate returns one fee per transaction, in input order.
func (e *Engine) Calculate(ctx context.Context, txns []model.Transaction) ([]Fee, error) {
	logger := appcontext.LoggerFromContext(ctx)
	ledger := NewLedger(e.settings.Currencies.Base(), e.settings.Rates)

	indexes := make([]int, len(txns))
	for i, txn := range txns {
		indexes[i] = ledger.Append(txn)
	}

	fees := make([]Fee, 0, len(txns))
	for i, txn := range txns {
		var (
			amount decimal.Decimal
			err    error
		)

		switch txn.Kind {
		case model.Deposit:
			amount = e.depositFee(txn)
		case model.Withdraw:
			amount, err = e.withdrawFee(ledger, indexes[i], txn)
		default:
			err = apperrors.InputFormatError(txn.Line, fmt.Sprintf("unknown transaction kind %d", txn.Kind))
		}
		if err != nil {
			return nil, fmt.Errorf("calculating fee for line %d: %w", txn.Line, err)
		}

		fee := Fee{Transaction: txn, Amount: amount}
		logger.DebugContext(ctx, "Calculated fee",
			"line", txn.Line,
			"customer", txn.CustomerID,
			"kind", txn.Kind.String(),
			"fee", fee.String(),
			"currency", txn.Currency,
		)
		fees = append(fees, fee)
	}

	return fees, nil
}

func (e *Engine) depositFee(txn model.Transaction) decimal.Decimal {
	rule := e.settings.Rules.Deposit(txn.CustomerClass)
	return money.CeilUp(money.Percent(txn.Amount(), rule.FeePercent), txn.DecimalPlaces)
}

func (e *Engine) withdrawFee(ledger *Ledger, index int, txn model.Transaction) (decimal.Decimal, error) {
	rule := e.settings.Rules.Withdraw(txn.CustomerClass)

	usage, err := ledger.Consume(index)
	if err != nil {
		return decimal.Zero, err
	}

	amount := txn.Amount()
	if usage.Count+1 > rule.FreeTransactions {
		// Out of free withdrawals for the week: the whole amount is charged,
		// whatever is left of the quota.
		return money.CeilUp(money.Percent(amount, rule.FeePercent), txn.DecimalPlaces), nil
	}

	over, err := e.amountOverQuota(amount, usage, rule, txn.Currency)
	if err != nil {
		return decimal.Zero, err
	}
	if !over.IsPositive() {
		return decimal.Zero, nil
	}

	return money.CeilUp(money.Percent(over, rule.FeePercent), txn.DecimalPlaces), nil
}

// amountOverQuota returns the part of amount, in the transaction currency,
// that exceeds what is left of the weekly quota.
func (e *Engine) amountOverQuota(
	amount decimal.Decimal,
	usage WeekUsage,
	rule WithdrawRule,
	code string,
) (decimal.Decimal, error) {
	if usage.Sum.GreaterThan(rule.FreeQuota) {
		return amount, nil
	}

	remaining, err := e.settings.Rates.FromBase(rule.FreeQuota.Sub(usage.Sum), code, e.settings.Currencies.Base())
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Sub(remaining), nil
}

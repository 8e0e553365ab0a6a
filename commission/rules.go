package commission

import (
	"github.com/shopspring/decimal"

	"commission/feecalculator/apperrors"
	"commission/feecalculator/commission/model"
)

// DepositRule prices deposits as a percentage of the amount.
type DepositRule struct {
	FeePercent decimal.Decimal
}

// WithdrawRule prices withdrawals. FreeQuota is expressed in base currency
// display units and resets every calendar week, as does FreeTransactions.
type WithdrawRule struct {
	FreeQuota        decimal.Decimal
	FreeTransactions int
	FeePercent       decimal.Decimal
}

// FeeRuleTable holds one deposit and one withdraw rule per customer class.
type FeeRuleTable struct {
	deposit  map[model.CustomerClass]DepositRule
	withdraw map[model.CustomerClass]WithdrawRule
}

// NewFeeRuleTable validates that every customer class is priced and that no
// rule carries a negative value.
func NewFeeRuleTable(
	deposit map[model.CustomerClass]DepositRule,
	withdraw map[model.CustomerClass]WithdrawRule,
) (FeeRuleTable, error) {
	table := FeeRuleTable{
		deposit:  make(map[model.CustomerClass]DepositRule, len(deposit)),
		withdraw: make(map[model.CustomerClass]WithdrawRule, len(withdraw)),
	}

	for _, class := range model.CustomerClasses() {
		d, ok := deposit[class]
		if !ok {
			return FeeRuleTable{}, apperrors.ConfigurationError("no deposit rule for %s customers", class)
		}
		if d.FeePercent.IsNegative() {
			return FeeRuleTable{}, apperrors.ConfigurationError("negative deposit fee for %s customers", class)
		}

		w, ok := withdraw[class]
		if !ok {
			return FeeRuleTable{}, apperrors.ConfigurationError("no withdraw rule for %s customers", class)
		}
		if w.FeePercent.IsNegative() || w.FreeQuota.IsNegative() || w.FreeTransactions < 0 {
			return FeeRuleTable{}, apperrors.ConfigurationError("negative withdraw rule value for %s customers", class)
		}

		table.deposit[class] = d
		table.withdraw[class] = w
	}

	return table, nil
}

func (t FeeRuleTable) Deposit(class model.CustomerClass) DepositRule {
	return t.deposit[class]
}

func (t FeeRuleTable) Withdraw(class model.CustomerClass) WithdrawRule {
	return t.withdraw[class]
}

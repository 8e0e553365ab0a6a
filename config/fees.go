package config

import (
	"context"
	_ "embed"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"commission/feecalculator/apperrors"
	"commission/feecalculator/commission"
	"commission/feecalculator/commission/model"
	"commission/feecalculator/currency"
)

//go:embed default_fees.yaml
var defaultFees []byte

// FeeSettings is the YAML fee table. Percentages and quotas are kept as
// strings so they reach decimal.Decimal without passing through float64.
type FeeSettings struct {
	Currencies CurrencySettings            `yaml:"currencies"`
	Deposit    map[string]DepositSettings  `yaml:"deposit"`
	Withdraw   map[string]WithdrawSettings `yaml:"withdraw"`
}

type CurrencySettings struct {
	Default string           `yaml:"default"`
	Accept  map[string]int32 `yaml:"accept"`
}

type DepositSettings struct {
	Fee string `yaml:"fee"`
}

type WithdrawSettings struct {
	FreeQuota        string `yaml:"free_quota"`
	FreeTransactions int    `yaml:"free_transactions"`
	Fee              string `yaml:"fee"`
}

// LoadFeeSettings reads the fee table at path, or the built-in table when
// path is empty.
func LoadFeeSettings(ctx context.Context, logger *slog.Logger, path string) (*FeeSettings, error) {
	data := defaultFees
	if path == "" {
		logger.DebugContext(ctx, "Using built-in fee table")
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.ConfigurationError("reading fee table %s: %v", path, err)
		}
		logger.DebugContext(ctx, "Using fee table from file", "path", path)
		data = raw
	}

	return ParseFeeSettings(data)
}

// ParseFeeSettings decodes a YAML fee table.
func ParseFeeSettings(data []byte) (*FeeSettings, error) {
	var settings FeeSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, apperrors.ConfigurationError("decoding fee table: %v", err)
	}

	return &settings, nil
}

// CurrencyTable builds the accepted currency table.
func (s *FeeSettings) CurrencyTable() (currency.Table, error) {
	return currency.NewTable(s.Currencies.Default, s.Currencies.Accept)
}

// RuleTable builds the fee rules. Every customer class must be priced.
func (s *FeeSettings) RuleTable() (commission.FeeRuleTable, error) {
	deposit := make(map[model.CustomerClass]commission.DepositRule, len(s.Deposit))
	for name, d := range s.Deposit {
		class, err := model.ParseCustomerClass(name)
		if err != nil {
			return commission.FeeRuleTable{}, apperrors.ConfigurationError("deposit: %v", err)
		}
		percent, err := parseDecimal("deposit."+name+".fee", d.Fee)
		if err != nil {
			return commission.FeeRuleTable{}, err
		}
		deposit[class] = commission.DepositRule{FeePercent: percent}
	}

	withdraw := make(map[model.CustomerClass]commission.WithdrawRule, len(s.Withdraw))
	for name, w := range s.Withdraw {
		class, err := model.ParseCustomerClass(name)
		if err != nil {
			return commission.FeeRuleTable{}, apperrors.ConfigurationError("withdraw: %v", err)
		}
		quota, err := parseDecimal("withdraw."+name+".free_quota", w.FreeQuota)
		if err != nil {
			return commission.FeeRuleTable{}, err
		}
		percent, err := parseDecimal("withdraw."+name+".fee", w.Fee)
		if err != nil {
			return commission.FeeRuleTable{}, err
		}
		withdraw[class] = commission.WithdrawRule{
			FreeQuota:        quota,
			FreeTransactions: w.FreeTransactions,
			FeePercent:       percent,
		}
	}

	return commission.NewFeeRuleTable(deposit, withdraw)
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperrors.ConfigurationError("%s: %q is not a decimal", field, value)
	}

	return d, nil
}

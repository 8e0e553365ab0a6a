package model

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"commission/feecalculator/money"
)

// CustomerClass is the closed set of customer categories fees depend on.
type CustomerClass uint8

const (
	Private CustomerClass = iota + 1
	Business
)

// CustomerClasses lists every class, in declaration order.
func CustomerClasses() []CustomerClass {
	return []CustomerClass{Private, Business}
}

func (c CustomerClass) String() string {
	switch c {
	case Private:
		return "private"
	case Business:
		return "business"
	default:
		return fmt.Sprintf("CustomerClass(%d)", uint8(c))
	}
}

// ParseCustomerClass maps the CSV spelling of a class to its value.
func ParseCustomerClass(s string) (CustomerClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "private":
		return Private, nil
	case "business":
		return Business, nil
	default:
		return 0, fmt.Errorf("unknown customer class %q", s)
	}
}

// Kind is the closed set of transaction kinds.
type Kind uint8

const (
	Withdraw Kind = iota + 1
	Deposit
)

func (k Kind) String() string {
	switch k {
	case Withdraw:
		return "withdraw"
	case Deposit:
		return "deposit"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps the CSV spelling of a transaction kind to its value.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "withdraw":
		return Withdraw, nil
	case "deposit":
		return Deposit, nil
	default:
		return 0, fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction is one accepted input row. Values are never modified after
// parsing; per run bookkeeping lives in the withdrawal ledger.
type Transaction struct {
	// Line is the 1-based line of the row in the input file.
	Line int
	Date          civil.Date
	CustomerID    int64
	CustomerClass CustomerClass
	Kind          Kind
	// AmountMinor is the amount in minor units of Currency.
	AmountMinor   int64
	Currency      string
	DecimalPlaces int32
}

// Amount returns the transaction amount in display units.
func (t Transaction) Amount() decimal.Decimal {
	return money.FromMinor(t.AmountMinor, t.DecimalPlaces)
}

package commission

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"commission/feecalculator/commission/model"
	"commission/feecalculator/currency"
)

// Week is a Monday to Sunday calendar week, both ends inclusive.
type Week struct {
	Start civil.Date
	End   civil.Date
}

// WeekOf returns the calendar week containing d.
func WeekOf(d civil.Date) Week {
	// time.Weekday counts from Sunday; shift so Monday is 0.
	offset := (int(d.In(time.UTC).Weekday()) + 6) % 7
	start := d.AddDays(-offset)

	return Week{Start: start, End: start.AddDays(6)}
}

func (w Week) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// WeekUsage is what a customer already withdrew in a week: the sum in base
// currency display units and the number of withdrawals.
type WeekUsage struct {
	Sum   decimal.Decimal
	Count int
}

type entry struct {
	txn       model.Transaction
	processed bool
}

// Ledger is an append-only log of the run's transactions. A withdrawal
// becomes visible to later usage queries only once it has been consumed.
type Ledger struct {
	entries []entry
	base    string
	rates   currency.Rates
}

func NewLedger(base string, rates currency.Rates) *Ledger {
	return &Ledger{base: base, rates: rates}
}

// Append adds txn to the log and returns its index.
func (l *Ledger) Append(txn model.Transaction) int {
	l.entries = append(l.entries, entry{txn: txn})
	return len(l.entries) - 1
}

// Usage sums the processed withdrawals of customerID dated within week.
func (l *Ledger) Usage(customerID int64, week Week) (WeekUsage, error) {
	usage := WeekUsage{Sum: decimal.Zero}

	for _, e := range l.entries {
		if !e.processed || e.txn.CustomerID != customerID || e.txn.Kind != model.Withdraw {
			continue
		}
		if !week.Contains(e.txn.Date) {
			continue
		}

		amount, err := l.rates.ToBase(e.txn.Amount(), e.txn.Currency, l.base)
		if err != nil {
			return WeekUsage{}, err
		}
		usage.Sum = usage.Sum.Add(amount)
		usage.Count++
	}

	return usage, nil
}

// Consume returns the usage seen by the withdrawal at index, then marks it
// processed so the customer's following withdrawals count it.
func (l *Ledger) Consume(index int) (WeekUsage, error) {
	e := &l.entries[index]

	usage, err := l.Usage(e.txn.CustomerID, WeekOf(e.txn.Date))
	if err != nil {
		return WeekUsage{}, err
	}
	e.processed = true

	return usage, nil
}

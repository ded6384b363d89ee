package core

import "time"

// Period is a pay cycle window; both bounds are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// PeriodSummary is the list of transactions for one period and its totals.
type PeriodSummary struct {
	Period       Period
	Transactions []Transaction
	Income       Money
	Expense      Money
	Balance      Money
}

// Summarize aggregates exactly the given transactions.
func Summarize(p Period, txs []Transaction) PeriodSummary {
	s := PeriodSummary{Period: p, Transactions: txs}
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.Income.Units += t.Amount.Units
		case Expense:
			s.Expense.Units += t.Amount.Units
		}
	}
	s.Balance = Money{Units: s.Income.Units - s.Expense.Units}
	return s
}

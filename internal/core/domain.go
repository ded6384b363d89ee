package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// IncomeCategory is stored as the category of every income record.
	IncomeCategory = "-"
)

type (
	TransactionType string

	// Money is an amount in the currency's minor unit. For IDR the minor
	// unit is the Rupiah itself.
	Money struct {
		Units int64
	}

	// TransactionFields are the user-editable parts of a transaction.
	TransactionFields struct {
		Type        TransactionType
		Amount      Money
		Description string
		Category    string
	}

	Transaction struct {
		ID        string
		Timestamp time.Time
		TransactionFields
	}
)

// Error taxonomy shared by the service, storage and HTTP layers.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrInvalidType     = fmt.Errorf("%w: type must be income or expense", ErrInvalidInput)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be a non-negative integer up to 10^15", ErrInvalidInput)
	ErrMissingCategory = fmt.Errorf("%w: category is required for expenses", ErrInvalidInput)
)

// ParseTransactionType accepts the canonical values and the legacy
// Indonesian ones still present in older records.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "pemasukan":
		return Income, nil
	case "expense", "pengeluaran":
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

func (m Money) Validate() error {
	if m.Units < 0 || m.Units > MaxAmount {
		return ErrInvalidAmount
	}
	return nil
}

// Normalize applies the category rules: income always carries the sentinel
// category, expense categories are trimmed.
func (f TransactionFields) Normalize() TransactionFields {
	f.Description = strings.TrimSpace(f.Description)
	if f.Type == Income {
		f.Category = IncomeCategory
	} else {
		f.Category = strings.TrimSpace(f.Category)
	}
	return f
}

func (f TransactionFields) Validate() error {
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	switch f.Type {
	case Expense:
		if f.Category == "" {
			return ErrMissingCategory
		}
	case Income:
		if f.Category != IncomeCategory {
			return fmt.Errorf("%w: income category must be %q", ErrInvalidInput, IncomeCategory)
		}
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp cannot be zero", ErrInvalidInput)
	}
	return t.TransactionFields.Validate()
}

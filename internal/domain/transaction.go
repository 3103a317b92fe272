package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// CategoryMortgage marks expenses that pay down a mortgage.
const CategoryMortgage = "mortgage"

// Categories lists the ledger categories allowed for each transaction type.
var Categories = map[TransactionType][]string{
	TypeIncome: {"rent", "other"},
	TypeExpense: {
		CategoryMortgage, "insurance", "maintenance", "repairs", "utilities",
		"property_management", "legal_fees", "other",
	},
}

type LedgerTransaction struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Vendor      string          `json:"vendor,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsMortgagePayment reports whether the transaction is a mortgage expense.
func (t *LedgerTransaction) IsMortgagePayment() bool {
	return t.Type == TypeExpense && t.Category == CategoryMortgage
}

func (t *LedgerTransaction) Validate() error {
	var errs []error
	if t.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if !t.Amount.IsPositive() {
		errs = append(errs, errors.New("amount must be positive"))
	}
	allowed, ok := Categories[t.Type]
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf("type must be %q or %q", TypeIncome, TypeExpense))
	case !slices.Contains(allowed, t.Category):
		errs = append(errs, fmt.Errorf("category %q is not valid for %s", t.Category, t.Type))
	}
	return errors.Join(errs...)
}

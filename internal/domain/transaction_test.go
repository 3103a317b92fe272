package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerTransactionValidate(t *testing.T) {
	valid := func() LedgerTransaction {
		return LedgerTransaction{
			Date:     NewDate(2024, 1, 27),
			Amount:   decimal.RequireFromString("1516.96"),
			Type:     TypeExpense,
			Category: CategoryMortgage,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*LedgerTransaction)
		wantErr string
	}{
		{name: "valid", mutate: func(*LedgerTransaction) {}},
		{name: "rent income", mutate: func(tx *LedgerTransaction) { tx.Type, tx.Category = TypeIncome, "rent" }},
		{name: "missing date", mutate: func(tx *LedgerTransaction) { tx.Date = Date{} }, wantErr: "date is required"},
		{name: "zero amount", mutate: func(tx *LedgerTransaction) { tx.Amount = decimal.Zero }, wantErr: "amount must be positive"},
		{name: "negative amount", mutate: func(tx *LedgerTransaction) { tx.Amount = decimal.NewFromInt(-5) }, wantErr: "amount must be positive"},
		{name: "unknown type", mutate: func(tx *LedgerTransaction) { tx.Type = "transfer" }, wantErr: "type must be"},
		{name: "category of other type", mutate: func(tx *LedgerTransaction) { tx.Category = "rent" }, wantErr: `category "rent" is not valid for expense`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestIsMortgagePayment(t *testing.T) {
	assert.True(t, (&LedgerTransaction{Type: TypeExpense, Category: CategoryMortgage}).IsMortgagePayment())
	assert.False(t, (&LedgerTransaction{Type: TypeIncome, Category: CategoryMortgage}).IsMortgagePayment())
	assert.False(t, (&LedgerTransaction{Type: TypeExpense, Category: "insurance"}).IsMortgagePayment())
}

func TestMortgageValidate(t *testing.T) {
	m := Mortgage{
		PropertyAddress: "418 Alder Street",
		LoanAmount:      decimal.NewFromInt(240000),
		InterestRate:    decimal.RequireFromString("6.5"),
		TermYears:       30,
		StartDate:       NewDate(2024, 1, 1),
	}
	assert.NoError(t, m.Validate())

	err := (&Mortgage{InterestRate: decimal.NewFromInt(-1)}).Validate()
	assert.ErrorContains(t, err, "property_address is required")
	assert.ErrorContains(t, err, "loan_amount must be positive")
	assert.ErrorContains(t, err, "interest_rate must not be negative")
	assert.ErrorContains(t, err, "start_date is required")
}

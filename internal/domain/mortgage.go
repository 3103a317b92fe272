package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Mortgage struct {
	ID              string          `json:"id"`
	PropertyAddress string          `json:"property_address"`
	LenderName      string          `json:"lender_name"`
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TermYears       int             `json:"term_years"`
	StartDate       Date            `json:"start_date"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate checks the fields a mortgage form requires before it is stored.
func (m *Mortgage) Validate() error {
	var errs []error
	if m.PropertyAddress == "" {
		errs = append(errs, errors.New("property_address is required"))
	}
	if !m.LoanAmount.IsPositive() {
		errs = append(errs, errors.New("loan_amount must be positive"))
	}
	if m.InterestRate.IsNegative() {
		errs = append(errs, errors.New("interest_rate must not be negative"))
	}
	if m.TermYears < 0 {
		errs = append(errs, errors.New("term_years must not be negative"))
	}
	if m.StartDate.IsZero() {
		errs = append(errs, errors.New("start_date is required"))
	}
	return errors.Join(errs...)
}

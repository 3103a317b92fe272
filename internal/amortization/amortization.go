// Package amortization builds fixed-rate, monthly amortization tables in the
// shape lenders export them.
package amortization

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Loan describes a fixed-rate loan repaid monthly.
type Loan struct {
	Principal decimal.Decimal
	// AnnualRate is a percentage, 6.5 meaning 6.5% a year.
	AnnualRate decimal.Decimal
	Months     int
	FirstDue   domain.Date
}

func (l Loan) validate() error {
	var errs []error
	if !l.Principal.IsPositive() {
		errs = append(errs, errors.New("principal must be positive"))
	}
	if l.AnnualRate.IsNegative() {
		errs = append(errs, errors.New("annual rate must not be negative"))
	}
	if l.Months <= 0 {
		errs = append(errs, errors.New("term must be at least one month"))
	}
	if l.FirstDue.IsZero() {
		errs = append(errs, errors.New("first due date is required"))
	}
	return errors.Join(errs...)
}

func (l Loan) monthlyRate() decimal.Decimal {
	return l.AnnualRate.Div(hundred).Div(decimal.NewFromInt(12))
}

// MonthlyPayment returns the level payment, rounded to cents.
func (l Loan) MonthlyPayment() decimal.Decimal {
	r := l.monthlyRate()
	if r.IsZero() {
		return l.Principal.Div(decimal.NewFromInt(int64(l.Months))).Round(2)
	}
	// P * r * g / (g - 1) with g = (1+r)^n
	g, _ := one.Add(r).PowInt32(int32(l.Months))
	return l.Principal.Mul(r).Mul(g).Div(g.Sub(one)).Round(2)
}

// Schedule returns one installment per month starting at FirstDue. Interest
// is charged on the outstanding balance and rounded to cents; the last
// installment pays off whatever balance the rounding left.
func (l Loan) Schedule(mortgageID string) ([]domain.ScheduledInstallment, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}

	r := l.monthlyRate()
	payment := l.MonthlyPayment()
	balance := l.Principal
	items := make([]domain.ScheduledInstallment, 0, l.Months)

	for n := 1; n <= l.Months; n++ {
		interest := balance.Mul(r).Round(2)
		principal := payment.Sub(interest)
		if n == l.Months || principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)

		items = append(items, domain.ScheduledInstallment{
			MortgageID:       mortgageID,
			PaymentNumber:    n,
			DueDate:          l.FirstDue.AddMonths(n - 1),
			ScheduledPayment: principal.Add(interest),
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
		if balance.IsZero() {
			break
		}
	}
	return items, nil
}

package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/domain"
)

// Summary aggregates a reconciled schedule into payment-progress figures.
type Summary struct {
	PaymentsMade      int                           `json:"payments_made"`
	TotalPayments     int                           `json:"total_payments"`
	ProgressPercent   float64                       `json:"progress_percent"`
	LastPaid          *domain.ReconciledInstallment `json:"last_paid"`
	NextPending       *domain.ReconciledInstallment `json:"next_pending"`
	CurrentBalance    decimal.Decimal               `json:"current_balance"`
	TotalActualPaid   decimal.Decimal               `json:"total_actual_paid"`
	TotalInterestPaid decimal.Decimal               `json:"total_interest_paid"`
	TotalVariance     decimal.Decimal               `json:"total_variance"`
	StatusCounts      map[domain.Status]int         `json:"status_counts"`
}

// Summarize reduces a reconciled schedule. The current balance is the
// remaining balance after the highest-numbered paid installment, or
// loanAmount when nothing has been paid yet.
func Summarize(schedule []domain.ReconciledInstallment, loanAmount decimal.Decimal) Summary {
	s := Summary{
		TotalPayments:     len(schedule),
		CurrentBalance:    loanAmount,
		TotalActualPaid:   decimal.Zero,
		TotalInterestPaid: decimal.Zero,
		TotalVariance:     decimal.Zero,
		StatusCounts:      make(map[domain.Status]int, len(domain.Statuses)),
	}
	for _, st := range domain.Statuses {
		s.StatusCounts[st] = 0
	}

	var balanceFrom *domain.ReconciledInstallment
	for i := range schedule {
		inst := &schedule[i]
		s.StatusCounts[inst.Status]++
		s.TotalActualPaid = s.TotalActualPaid.Add(inst.ActualPayment)
		s.TotalVariance = s.TotalVariance.Add(inst.Variance)
		if inst.ActualPayment.IsPositive() {
			s.TotalInterestPaid = s.TotalInterestPaid.Add(inst.Interest)
		}

		switch inst.Status {
		case domain.StatusPaid:
			s.PaymentsMade++
			if s.LastPaid == nil || inst.PaidDate.After(*s.LastPaid.PaidDate) {
				s.LastPaid = inst
			}
			if balanceFrom == nil || inst.PaymentNumber > balanceFrom.PaymentNumber {
				balanceFrom = inst
			}
		case domain.StatusPending:
			if s.NextPending == nil || inst.DueDate.Before(s.NextPending.DueDate) {
				s.NextPending = inst
			}
		}
	}

	if s.TotalPayments > 0 {
		s.ProgressPercent = float64(s.PaymentsMade) / float64(s.TotalPayments) * 100
	}
	if balanceFrom != nil {
		s.CurrentBalance = balanceFrom.RemainingBalance
	}
	return s
}

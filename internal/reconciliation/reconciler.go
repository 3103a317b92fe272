package reconciliation

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/domain"
)

const (
	// DefaultMatchWindowDays is how many days before its due date a payment
	// may arrive and still count toward an installment.
	DefaultMatchWindowDays = 30
)

// DefaultVarianceTolerance is the absolute amount by which a payment may
// differ from the scheduled amount and still be considered paid in full.
var DefaultVarianceTolerance = decimal.RequireFromString("0.01")

// Policy holds the matching rules applied by Reconcile.
type Policy struct {
	MatchWindowDays   int
	VarianceTolerance decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		MatchWindowDays:   DefaultMatchWindowDays,
		VarianceTolerance: DefaultVarianceTolerance,
	}
}

// Input is one mortgage's schedule and the unfiltered ledger.
type Input struct {
	Schedule     []domain.ScheduledInstallment
	Transactions []domain.LedgerTransaction
	StartDate    domain.Date
	// AsOf separates missed installments from pending ones. Zero means today.
	AsOf domain.Date
}

// claims is the set of transaction IDs already attributed to an installment
// during a single Reconcile call.
type claims map[string]struct{}

func (c claims) has(id string) bool {
	_, ok := c[id]
	return ok
}

func (c claims) add(txns []domain.LedgerTransaction) {
	for _, tx := range txns {
		c[tx.ID] = struct{}{}
	}
}

// Reconcile attributes eligible ledger transactions to scheduled installments
// and classifies each installment. Installments are visited in ascending
// payment number; each one claims every unclaimed transaction dated on or up
// to MatchWindowDays before its due date, so a transaction counts toward at
// most one installment and earlier installments win. The result has the same
// length and order as in.Schedule.
func (p Policy) Reconcile(in Input) []domain.ReconciledInstallment {
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = domain.Today()
	}

	eligible := eligibleTransactions(in.Transactions, in.StartDate)

	order := make([]int, len(in.Schedule))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(in.Schedule[a].PaymentNumber, in.Schedule[b].PaymentNumber)
	})

	out := make([]domain.ReconciledInstallment, len(in.Schedule))
	used := make(claims, len(eligible))
	for _, i := range order {
		matched := p.candidates(in.Schedule[i].DueDate, eligible, used)
		used.add(matched)
		out[i] = p.classify(in.Schedule[i], matched, asOf)
	}
	return out
}

// eligibleTransactions keeps mortgage expenses dated on or after start,
// sorted by date then ID so repeated runs attribute identically.
func eligibleTransactions(txns []domain.LedgerTransaction, start domain.Date) []domain.LedgerTransaction {
	var eligible []domain.LedgerTransaction
	for _, tx := range txns {
		if tx.IsMortgagePayment() && !tx.Date.Before(start) {
			eligible = append(eligible, tx)
		}
	}
	slices.SortStableFunc(eligible, func(a, b domain.LedgerTransaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return eligible
}

func (p Policy) candidates(due domain.Date, eligible []domain.LedgerTransaction, used claims) []domain.LedgerTransaction {
	var matched []domain.LedgerTransaction
	for _, tx := range eligible {
		if used.has(tx.ID) {
			continue
		}
		days := due.DaysSince(tx.Date)
		if days >= 0 && days <= p.MatchWindowDays {
			matched = append(matched, tx)
		}
	}
	return matched
}

func (p Policy) classify(inst domain.ScheduledInstallment, matched []domain.LedgerTransaction, asOf domain.Date) domain.ReconciledInstallment {
	r := domain.ReconciledInstallment{
		ScheduledInstallment: inst,
		ActualPayment:        decimal.Zero,
		Variance:             decimal.Zero,
	}

	var paid domain.Date
	for _, tx := range matched {
		r.ActualPayment = r.ActualPayment.Add(tx.Amount)
		r.MatchedTransactionIDs = append(r.MatchedTransactionIDs, tx.ID)
		if tx.Date.After(paid) {
			paid = tx.Date
		}
	}
	if len(matched) > 0 {
		r.PaidDate = &paid
	}

	switch {
	case r.ActualPayment.IsPositive():
		r.Variance = r.ActualPayment.Sub(inst.ScheduledPayment)
		if r.Variance.Abs().LessThanOrEqual(p.VarianceTolerance) {
			r.Status = domain.StatusPaid
		} else {
			r.Status = domain.StatusVariance
		}
	case inst.DueDate.Before(asOf):
		r.Status = domain.StatusMissed
	default:
		r.Status = domain.StatusPending
	}
	return r
}

package reconciliation

import (
	"context"

	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/repository"
)

// MortgageReader loads mortgages.
type MortgageReader interface {
	GetByID(ctx context.Context, id string) (*domain.Mortgage, error)
	Latest(ctx context.Context) (*domain.Mortgage, error)
}

// ScheduleReader loads a mortgage's imported amortization schedule.
type ScheduleReader interface {
	ListByMortgage(ctx context.Context, mortgageID string) ([]domain.ScheduledInstallment, error)
}

// LedgerReader loads the transaction ledger.
type LedgerReader interface {
	All(ctx context.Context) ([]domain.LedgerTransaction, error)
	Totals(ctx context.Context) (*repository.LedgerTotals, error)
}

var (
	_ MortgageReader = (*repository.MortgageRepo)(nil)
	_ ScheduleReader = (*repository.ScheduleRepo)(nil)
	_ LedgerReader   = (*repository.TransactionRepo)(nil)
)

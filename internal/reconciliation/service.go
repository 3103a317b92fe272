package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/logger"
	"github.com/llcledger/tracker/internal/repository"
)

// Result is a mortgage's reconciled schedule and its summary.
type Result struct {
	Mortgage *domain.Mortgage               `json:"mortgage"`
	AsOf     domain.Date                    `json:"as_of"`
	Schedule []domain.ReconciledInstallment `json:"schedule"`
	Summary  Summary                        `json:"summary"`
}

// Dashboard is the landing view: the newest mortgage's progress and the
// ledger totals.
type Dashboard struct {
	AsOf     domain.Date              `json:"as_of"`
	Mortgage *domain.Mortgage         `json:"mortgage"`
	Summary  *Summary                 `json:"mortgage_summary"`
	Ledger   *repository.LedgerTotals `json:"ledger"`
}

// Service loads schedules and the ledger from storage and reconciles them.
// Nothing it computes is written back.
type Service struct {
	mortgages MortgageReader
	schedules ScheduleReader
	ledger    LedgerReader
	policy    Policy
	log       zerolog.Logger
}

// NewService creates a new reconciliation service using DefaultPolicy.
func NewService(
	mortgages MortgageReader,
	schedules ScheduleReader,
	ledger LedgerReader,
	log zerolog.Logger,
) *Service {
	return &Service{
		mortgages: mortgages,
		schedules: schedules,
		ledger:    ledger,
		policy:    DefaultPolicy(),
		log:       log,
	}
}

// ReconcileMortgage reconciles one mortgage's schedule against the whole
// ledger as of the given day (today when zero).
func (s *Service) ReconcileMortgage(ctx context.Context, mortgageID string, asOf domain.Date) (*Result, error) {
	m, err := s.mortgages.GetByID(ctx, mortgageID)
	if err != nil {
		return nil, fmt.Errorf("load mortgage: %w", err)
	}
	return s.reconcile(ctx, m, asOf)
}

// Dashboard summarizes the most recently created mortgage. Mortgage and
// Summary are nil when no mortgage exists.
func (s *Service) Dashboard(ctx context.Context, asOf domain.Date) (*Dashboard, error) {
	if asOf.IsZero() {
		asOf = domain.Today()
	}
	d := &Dashboard{AsOf: asOf}

	totals, err := s.ledger.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}
	d.Ledger = totals

	m, err := s.mortgages.Latest(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return d, nil
	case err != nil:
		return nil, fmt.Errorf("load latest mortgage: %w", err)
	}

	res, err := s.reconcile(ctx, m, asOf)
	if err != nil {
		return nil, err
	}
	d.Mortgage = res.Mortgage
	d.Summary = &res.Summary
	return d, nil
}

func (s *Service) reconcile(ctx context.Context, m *domain.Mortgage, asOf domain.Date) (*Result, error) {
	if asOf.IsZero() {
		asOf = domain.Today()
	}

	schedule, err := s.schedules.ListByMortgage(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	txns, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	reconciled := s.policy.Reconcile(Input{
		Schedule:     schedule,
		Transactions: txns,
		StartDate:    m.StartDate,
		AsOf:         asOf,
	})
	summary := Summarize(reconciled, m.LoanAmount)

	log := logger.WithFields(logger.FromContextOr(ctx, s.log), map[string]any{"component": "reconciliation"})
	log.Debug().
		Str("mortgage_id", m.ID).
		Str("as_of", asOf.String()).
		Int("installments", len(reconciled)).
		Int("ledger_size", len(txns)).
		Int("paid", summary.StatusCounts[domain.StatusPaid]).
		Int("variance", summary.StatusCounts[domain.StatusVariance]).
		Int("missed", summary.StatusCounts[domain.StatusMissed]).
		Msg("reconciled schedule")

	return &Result{
		Mortgage: m,
		AsOf:     asOf,
		Schedule: reconciled,
		Summary:  summary,
	}, nil
}

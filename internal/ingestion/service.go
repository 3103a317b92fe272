package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/logger"
	"github.com/llcledger/tracker/internal/repository"
)

// Import formats accepted by ImportTransactions.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ScheduleImportResult is returned from a schedule import.
type ScheduleImportResult struct {
	ImportID        string `json:"import_id,omitempty"`
	MortgageID      string `json:"mortgage_id"`
	RowsImported    int    `json:"rows_imported"`
	AlreadyImported bool   `json:"already_imported"`
}

// TransactionImportResult is returned from a ledger import.
type TransactionImportResult struct {
	RecordsImported   int `json:"records_imported"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
}

type mortgageGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Mortgage, error)
}

type scheduleStore interface {
	LatestImport(ctx context.Context, mortgageID string) (*domain.ScheduleImport, error)
	ReplaceSchedule(ctx context.Context, imp *domain.ScheduleImport, items []domain.ScheduledInstallment) (int, error)
}

type ledgerStore interface {
	Insert(ctx context.Context, tx *domain.LedgerTransaction) (bool, error)
	BulkInsert(ctx context.Context, txns []domain.LedgerTransaction) (int, error)
}

// Service imports lender schedules and ledger entries into storage.
type Service struct {
	mortgages mortgageGetter
	schedules scheduleStore
	ledger    ledgerStore
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new ingestion service.
func NewService(
	mortgages *repository.MortgageRepo,
	schedules *repository.ScheduleRepo,
	ledger *repository.TransactionRepo,
	log zerolog.Logger,
) *Service {
	return &Service{
		mortgages: mortgages,
		schedules: schedules,
		ledger:    ledger,
		log:       log,
		now:       time.Now,
	}
}

// ImportSchedule replaces a mortgage's amortization schedule with the rows of
// a lender CSV. Importing the same file that produced the current schedule
// again is a no-op. A file with no usable rows leaves the current schedule
// in place and returns ErrEmptySchedule.
func (s *Service) ImportSchedule(ctx context.Context, mortgageID string, data []byte) (*ScheduleImportResult, error) {
	if _, err := s.mortgages.GetByID(ctx, mortgageID); err != nil {
		return nil, fmt.Errorf("load mortgage: %w", err)
	}

	log := s.logger(ctx)
	hash := fmt.Sprintf("%x", sha256.Sum256(data))
	latest, err := s.schedules.LatestImport(ctx, mortgageID)
	switch {
	case err == nil && latest.FileHash == hash:
		log.Info().Str("mortgage_id", mortgageID).Str("import_id", latest.ID).
			Msg("schedule file already imported, skipping")
		return &ScheduleImportResult{
			ImportID:        latest.ID,
			MortgageID:      mortgageID,
			AlreadyImported: true,
		}, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check previous import: %w", err)
	}

	items, err := ParseScheduleCSV(data, mortgageID)
	if err != nil {
		return nil, fmt.Errorf("%w: parse schedule: %w", ErrInvalidFile, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, ErrEmptySchedule)
	}

	imp := &domain.ScheduleImport{
		ID:         uuid.NewString(),
		MortgageID: mortgageID,
		FileHash:   hash,
		RowCount:   len(items),
		ImportedAt: s.now(),
	}
	n, err := s.schedules.ReplaceSchedule(ctx, imp, items)
	if err != nil {
		return nil, fmt.Errorf("store schedule: %w", err)
	}

	log.Info().
		Str("mortgage_id", mortgageID).
		Str("import_id", imp.ID).
		Int("rows", n).
		Msg("imported amortization schedule")

	return &ScheduleImportResult{
		ImportID:     imp.ID,
		MortgageID:   mortgageID,
		RowsImported: n,
	}, nil
}

// AddTransaction validates and stores a single ledger entry, assigning an ID
// when it has none.
func (s *Service) AddTransaction(ctx context.Context, tx *domain.LedgerTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.stamp(tx)
	created, err := s.ledger.Insert(ctx, tx)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%s: %w", tx.ID, ErrDuplicateTransaction)
	}
	return nil
}

// ImportTransactions parses a ledger file in the given format (csv or json)
// and stores its entries. Entries whose ID already exists are skipped.
// Entries without an ID get one derived from their content, so importing the
// same file twice stores each entry once.
func (s *Service) ImportTransactions(ctx context.Context, data []byte, format string) (*TransactionImportResult, error) {
	var txns []domain.LedgerTransaction
	var err error

	switch format {
	case FormatCSV:
		txns, err = ParseLedgerCSV(data)
	case FormatJSON:
		txns, err = ParseLedgerJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidFile, format, err)
	}

	assignContentIDs(txns)
	for i := range txns {
		s.stamp(&txns[i])
	}
	inserted, err := s.ledger.BulkInsert(ctx, txns)
	if err != nil {
		return nil, fmt.Errorf("insert transactions: %w", err)
	}

	log := s.logger(ctx)
	log.Info().
		Str("format", format).
		Int("records", len(txns)).
		Int("inserted", inserted).
		Msg("imported ledger transactions")

	return &TransactionImportResult{
		RecordsImported:   inserted,
		DuplicatesSkipped: len(txns) - inserted,
	}, nil
}

func (s *Service) stamp(tx *domain.LedgerTransaction) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now()
	}
}

// logger prefers the request-scoped logger carried by ctx.
func (s *Service) logger(ctx context.Context) zerolog.Logger {
	return logger.WithFields(logger.FromContextOr(ctx, s.log), map[string]any{"component": "ingestion"})
}

// assignContentIDs gives every entry without an ID one derived from its
// date, type, category, amount, description and vendor. Identical entries
// within one file are told apart by their occurrence count.
func assignContentIDs(txns []domain.LedgerTransaction) {
	seen := make(map[string]int)
	for i := range txns {
		tx := &txns[i]
		if tx.ID != "" {
			continue
		}
		key := strings.Join([]string{
			tx.Date.String(), string(tx.Type), tx.Category, tx.Amount.String(),
			tx.Description, tx.Vendor,
		}, "\x1f")
		n := seen[key]
		seen[key]++
		sum := sha256.Sum256([]byte(key + "\x1f" + strconv.Itoa(n)))
		tx.ID = "imp-" + hex.EncodeToString(sum[:12])
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/llcledger/tracker/internal/domain"
)

const scheduleColumns = `id, mortgage_id, payment_number, due_date, scheduled_payment,
	principal, interest, remaining_balance`

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// ReplaceSchedule deletes the mortgage's current schedule and stores items in
// its place, recording imp, all in one transaction.
func (r *ScheduleRepo) ReplaceSchedule(ctx context.Context, imp *domain.ScheduleImport, items []domain.ScheduledInstallment) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM schedule_items WHERE mortgage_id = ?", imp.MortgageID,
	); err != nil {
		return 0, fmt.Errorf("clear schedule: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO schedule_items (`+scheduleColumns+`) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range items {
		it := &items[i]
		if _, err := stmt.ExecContext(ctx,
			it.ID, it.MortgageID, it.PaymentNumber, it.DueDate, it.ScheduledPayment,
			it.Principal, it.Interest, it.RemainingBalance,
		); err != nil {
			return 0, fmt.Errorf("insert item %d: %w", it.PaymentNumber, err)
		}
		inserted++
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schedule_imports (id, mortgage_id, file_hash, row_count, imported_at)
		VALUES (?,?,?,?,?)`,
		imp.ID, imp.MortgageID, imp.FileHash, imp.RowCount, imp.ImportedAt.UTC().Format(timeFormat),
	); err != nil {
		return 0, fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ListByMortgage returns the mortgage's schedule ordered by payment number.
func (r *ScheduleRepo) ListByMortgage(ctx context.Context, mortgageID string) ([]domain.ScheduledInstallment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedule_items WHERE mortgage_id = ? ORDER BY payment_number",
		mortgageID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var items []domain.ScheduledInstallment
	for rows.Next() {
		var it domain.ScheduledInstallment
		if err := rows.Scan(
			&it.ID, &it.MortgageID, &it.PaymentNumber, &it.DueDate, &it.ScheduledPayment,
			&it.Principal, &it.Interest, &it.RemainingBalance,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LatestImport returns the most recent import for the mortgage.
func (r *ScheduleRepo) LatestImport(ctx context.Context, mortgageID string) (*domain.ScheduleImport, error) {
	var imp domain.ScheduleImport
	var importedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, mortgage_id, file_hash, row_count, imported_at FROM schedule_imports
		WHERE mortgage_id = ? ORDER BY imported_at DESC, rowid DESC LIMIT 1`, mortgageID,
	).Scan(&imp.ID, &imp.MortgageID, &imp.FileHash, &imp.RowCount, &importedAt)
	if err != nil {
		return nil, notFound(err, "schedule import for mortgage", mortgageID)
	}
	imp.ImportedAt = parseTime(importedAt)
	return &imp, nil
}

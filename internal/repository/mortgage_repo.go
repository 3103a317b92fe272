package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/llcledger/tracker/internal/domain"
)

const mortgageColumns = `id, property_address, lender_name, loan_amount, interest_rate,
	term_years, start_date, monthly_payment, created_at`

type MortgageRepo struct {
	db *sql.DB
}

func NewMortgageRepo(db *sql.DB) *MortgageRepo {
	return &MortgageRepo{db: db}
}

func (r *MortgageRepo) Insert(ctx context.Context, m *domain.Mortgage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mortgages (`+mortgageColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		m.ID, m.PropertyAddress, m.LenderName, m.LoanAmount, m.InterestRate,
		m.TermYears, m.StartDate, m.MonthlyPayment, m.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert mortgage: %w", err)
	}
	return nil
}

// Update overwrites every editable field. The creation time is kept.
func (r *MortgageRepo) Update(ctx context.Context, m *domain.Mortgage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE mortgages SET property_address = ?, lender_name = ?, loan_amount = ?,
		 interest_rate = ?, term_years = ?, start_date = ?, monthly_payment = ?
		 WHERE id = ?`,
		m.PropertyAddress, m.LenderName, m.LoanAmount, m.InterestRate,
		m.TermYears, m.StartDate, m.MonthlyPayment, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update mortgage: %w", err)
	}
	return requireAffected(res, "mortgage", m.ID)
}

// Delete removes the mortgage together with its schedule and import history.
func (r *MortgageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM mortgages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete mortgage: %w", err)
	}
	return requireAffected(res, "mortgage", id)
}

func (r *MortgageRepo) GetByID(ctx context.Context, id string) (*domain.Mortgage, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+mortgageColumns+" FROM mortgages WHERE id = ?", id)
	m, err := scanMortgage(row)
	if err != nil {
		return nil, notFound(err, "mortgage", id)
	}
	return m, nil
}

// List returns every mortgage, newest first.
func (r *MortgageRepo) List(ctx context.Context) ([]domain.Mortgage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+mortgageColumns+" FROM mortgages ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var mortgages []domain.Mortgage
	for rows.Next() {
		m, err := scanMortgage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		mortgages = append(mortgages, *m)
	}
	return mortgages, rows.Err()
}

// Latest returns the most recently created mortgage, or ErrNotFound when
// there is none.
func (r *MortgageRepo) Latest(ctx context.Context) (*domain.Mortgage, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+mortgageColumns+" FROM mortgages ORDER BY created_at DESC, id LIMIT 1")
	m, err := scanMortgage(row)
	if err != nil {
		return nil, notFound(err, "mortgage", "latest")
	}
	return m, nil
}

func (r *MortgageRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mortgages").Scan(&count)
	return count, err
}

func scanMortgage(s scanner) (*domain.Mortgage, error) {
	var m domain.Mortgage
	var createdAt string
	err := s.Scan(
		&m.ID, &m.PropertyAddress, &m.LenderName, &m.LoanAmount, &m.InterestRate,
		&m.TermYears, &m.StartDate, &m.MonthlyPayment, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = parseTime(createdAt)
	return &m, nil
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/domain"
)

const transactionColumns = `id, date, amount, type, category, description, vendor, created_at`

const insertTransactionSQL = `INSERT OR IGNORE INTO ledger_transactions
	(` + transactionColumns + `) VALUES (?,?,?,?,?,?,?,?)`

type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Insert stores tx. It returns false when a transaction with the same ID
// already exists.
func (r *TransactionRepo) Insert(ctx context.Context, tx *domain.LedgerTransaction) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertTransactionSQL, transactionArgs(tx)...)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	ra, _ := res.RowsAffected()
	return ra > 0, nil
}

// BulkInsert stores txns in one transaction, skipping IDs that already exist,
// and returns how many rows were added.
func (r *TransactionRepo) BulkInsert(ctx context.Context, txns []domain.LedgerTransaction) (int, error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx, insertTransactionSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for i := range txns {
		res, err := stmt.ExecContext(ctx, transactionArgs(&txns[i])...)
		if err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger_transactions").Scan(&count)
	return count, err
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*domain.LedgerTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM ledger_transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err, "transaction", id)
	}
	return tx, nil
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM ledger_transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "transaction", id)
}

// All returns the whole ledger in date order.
func (r *TransactionRepo) All(ctx context.Context) ([]domain.LedgerTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM ledger_transactions ORDER BY date, id")
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

type TransactionFilter struct {
	Type     string
	Category string
	From     *domain.Date
	To       *domain.Date
	Page     int
	Limit    int
}

// List returns one page of matching transactions, newest first, plus the
// total number of matches.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilter) ([]domain.LedgerTransaction, int, error) {
	where, args := buildTransactionWhere(f)

	var total int
	countSQL := "SELECT COUNT(*) FROM ledger_transactions" + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	querySQL := "SELECT " + transactionColumns + " FROM ledger_transactions" + where +
		" ORDER BY date DESC, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// LedgerTotals holds ledger-wide income and expense sums.
type LedgerTotals struct {
	Count        int             `json:"count"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	MortgagePaid decimal.Decimal `json:"mortgage_paid"`
	Net          decimal.Decimal `json:"net"`
}

// Totals sums the ledger in Go; SQLite would add the decimal text as floats.
func (r *TransactionRepo) Totals(ctx context.Context) (*LedgerTotals, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT amount, type, category FROM ledger_transactions")
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	t := &LedgerTotals{Income: decimal.Zero, Expense: decimal.Zero, MortgagePaid: decimal.Zero}
	for rows.Next() {
		var amount decimal.Decimal
		var typ, category string
		if err := rows.Scan(&amount, &typ, &category); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		t.Count++
		switch domain.TransactionType(typ) {
		case domain.TypeIncome:
			t.Income = t.Income.Add(amount)
		case domain.TypeExpense:
			t.Expense = t.Expense.Add(amount)
			if category == domain.CategoryMortgage {
				t.MortgagePaid = t.MortgagePaid.Add(amount)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	t.Net = t.Income.Sub(t.Expense)
	return t, nil
}

// --- helpers ---

func transactionArgs(tx *domain.LedgerTransaction) []any {
	return []any{
		tx.ID, tx.Date, tx.Amount, string(tx.Type), tx.Category,
		tx.Description, tx.Vendor, tx.CreatedAt.UTC().Format(timeFormat),
	}
}

func buildTransactionWhere(f TransactionFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.From != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.From.String())
	}
	if f.To != nil {
		clauses = append(clauses, "date <= ?")
		args = append(args, f.To.String())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTransaction(s scanner) (*domain.LedgerTransaction, error) {
	var tx domain.LedgerTransaction
	var typ, createdAt string
	err := s.Scan(
		&tx.ID, &tx.Date, &tx.Amount, &typ, &tx.Category,
		&tx.Description, &tx.Vendor, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = domain.TransactionType(typ)
	tx.CreatedAt = parseTime(createdAt)
	return &tx, nil
}

func scanTransactions(rows *sql.Rows) ([]domain.LedgerTransaction, error) {
	var txns []domain.LedgerTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		txns = append(txns, *tx)
	}
	return txns, rows.Err()
}

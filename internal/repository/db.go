package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup by ID matches no row.
var ErrNotFound = errors.New("not found")

// timeFormat is fixed width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// Amounts are stored as decimal text and dates as YYYY-MM-DD text so that
// neither loses precision nor picks up a time zone.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mortgages (
			id TEXT PRIMARY KEY,
			property_address TEXT NOT NULL,
			lender_name TEXT NOT NULL DEFAULT '',
			loan_amount TEXT NOT NULL,
			interest_rate TEXT NOT NULL,
			term_years INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			monthly_payment TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS schedule_items (
			id TEXT PRIMARY KEY,
			mortgage_id TEXT NOT NULL,
			payment_number INTEGER NOT NULL,
			due_date TEXT NOT NULL,
			scheduled_payment TEXT NOT NULL,
			principal TEXT NOT NULL,
			interest TEXT NOT NULL,
			remaining_balance TEXT NOT NULL,
			UNIQUE (mortgage_id, payment_number),
			FOREIGN KEY (mortgage_id) REFERENCES mortgages(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_items_mortgage ON schedule_items(mortgage_id)`,

		`CREATE TABLE IF NOT EXISTS schedule_imports (
			id TEXT PRIMARY KEY,
			mortgage_id TEXT NOT NULL,
			file_hash TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			imported_at TEXT NOT NULL,
			FOREIGN KEY (mortgage_id) REFERENCES mortgages(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_imports_mortgage ON schedule_imports(mortgage_id, imported_at)`,

		`CREATE TABLE IF NOT EXISTS ledger_transactions (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			amount TEXT NOT NULL,
			type TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			vendor TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_transactions_date ON ledger_transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_transactions_category ON ledger_transactions(type, category)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}

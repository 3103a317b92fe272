package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledInstallment is one row of a lender's amortization table. Rows are
// created in bulk by a schedule import and replaced wholesale on re-import.
type ScheduledInstallment struct {
	ID               string          `json:"id"`
	MortgageID       string          `json:"mortgage_id"`
	PaymentNumber    int             `json:"payment_number"`
	DueDate          Date            `json:"due_date"`
	ScheduledPayment decimal.Decimal `json:"scheduled_payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type ScheduleImport struct {
	ID         string    `json:"id"`
	MortgageID string    `json:"mortgage_id"`
	FileHash   string    `json:"file_hash"`
	RowCount   int       `json:"row_count"`
	ImportedAt time.Time `json:"imported_at"`
}

type Status string

const (
	StatusPaid     Status = "paid"
	StatusVariance Status = "variance"
	StatusMissed   Status = "missed"
	StatusPending  Status = "pending"
)

// Statuses lists every installment status in display order.
var Statuses = []Status{StatusPaid, StatusVariance, StatusMissed, StatusPending}

// ReconciledInstallment is a scheduled installment together with the cash the
// ledger shows was paid against it. It is computed on demand and never stored.
type ReconciledInstallment struct {
	ScheduledInstallment
	ActualPayment         decimal.Decimal `json:"actual_payment"`
	PaidDate              *Date           `json:"paid_date"`
	Variance              decimal.Decimal `json:"variance"`
	Status                Status          `json:"status"`
	MatchedTransactionIDs []string        `json:"matched_transaction_ids,omitempty"`
}

package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llcledger/tracker/internal/domain"
)

// scheduleColumns holds the position of each known column, -1 when absent.
type scheduleColumns struct {
	paymentNumber    int
	dueDate          int
	scheduledPayment int
	interest         int
	principal        int
	remainingBalance int
}

// detectScheduleColumns matches lender header names loosely, for example
// "Payment #", "Due Date", "Scheduled Payment", "Remaining Balance".
func detectScheduleColumns(header []string) scheduleColumns {
	cols := scheduleColumns{-1, -1, -1, -1, -1, -1}
	find := func(match func(h string) bool) int {
		for i, h := range header {
			if match(strings.ToLower(strings.TrimSpace(h))) {
				return i
			}
		}
		return -1
	}
	has := strings.Contains

	cols.paymentNumber = find(func(h string) bool {
		return has(h, "payment") && (has(h, "#") || has(h, "number"))
	})
	cols.dueDate = find(func(h string) bool { return has(h, "due") && has(h, "date") })
	cols.scheduledPayment = find(func(h string) bool { return has(h, "scheduled") && has(h, "payment") })
	cols.interest = find(func(h string) bool { return h == "interest" })
	cols.principal = find(func(h string) bool { return h == "principal" })
	cols.remainingBalance = find(func(h string) bool { return has(h, "remaining") && has(h, "balance") })
	return cols
}

// ParseScheduleCSV parses a lender amortization schedule export.
//
// Due date and scheduled payment columns are required. Rows that are too
// short, or whose due date, scheduled payment or payment number cannot be
// read, are skipped, as are payment numbers below 1. Blank or unreadable
// principal, interest and balance cells are zero. Without a payment number
// column the data row position is used.
func ParseScheduleCSV(data []byte, mortgageID string) ([]domain.ScheduledInstallment, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := detectScheduleColumns(header)
	if cols.dueDate < 0 || cols.scheduledPayment < 0 {
		return nil, fmt.Errorf("%w: need \"Due Date\" and \"Scheduled Payment\"", ErrMissingColumns)
	}
	minLen := max(cols.paymentNumber, cols.dueDate, cols.scheduledPayment) + 1

	var items []domain.ScheduledInstallment
	seen := make(map[int]int)
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if len(row) < minLen {
			continue
		}

		number := rowNum
		if cols.paymentNumber >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(row[cols.paymentNumber]))
			if err != nil || n < 1 {
				continue
			}
			number = n
		}

		dueStr := strings.TrimSpace(row[cols.dueDate])
		if dueStr == "" {
			continue
		}
		due, err := parseScheduleDate(dueStr)
		if err != nil {
			continue
		}

		scheduled, err := parseAmount(row[cols.scheduledPayment])
		if err != nil {
			continue
		}

		if prev, dup := seen[number]; dup {
			return nil, fmt.Errorf("row %d: payment number %d already used on row %d", rowNum, number, prev)
		}
		seen[number] = rowNum

		items = append(items, domain.ScheduledInstallment{
			ID:               uuid.NewString(),
			MortgageID:       mortgageID,
			PaymentNumber:    number,
			DueDate:          due,
			ScheduledPayment: scheduled,
			Principal:        optionalAmount(row, cols.principal),
			Interest:         optionalAmount(row, cols.interest),
			RemainingBalance: optionalAmount(row, cols.remainingBalance),
		})
	}

	return items, nil
}

// parseScheduleDate accepts M/D/YY, M/D/YYYY and ISO dates. Two-digit years
// are taken to be in the 2000s.
func parseScheduleDate(s string) (domain.Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return domain.ParseDate(s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.Date{}, fmt.Errorf("invalid date %q", s)
		}
		nums[i] = n
	}
	month, day, year := nums[0], nums[1], nums[2]
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return domain.Date{}, fmt.Errorf("invalid date %q", s)
	}
	return domain.NewDate(year, time.Month(month), day), nil
}

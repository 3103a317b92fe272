package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/llcledger/tracker/internal/domain"
)

// ParseLedgerCSV parses a ledger export.
//
// Expected header (any order, case-insensitive; id, description and vendor
// are optional):
//
//	id,date,type,category,amount,description,vendor
//
// Unlike schedule imports, a bad row fails the whole file: a silently dropped
// payment would show up later as a missed installment.
func ParseLedgerCSV(data []byte) ([]domain.LedgerTransaction, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range []string{"date", "type", "category", "amount"} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var txns []domain.LedgerTransaction

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lineNum, _ := reader.FieldPos(0)

		date, err := domain.ParseDate(cell(row, "date"))
		if err != nil {
			return nil, fmt.Errorf("line %d date: %w", lineNum, err)
		}
		amount, err := parseAmount(cell(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("line %d amount: %w", lineNum, err)
		}

		tx := domain.LedgerTransaction{
			ID:          cell(row, "id"),
			Date:        date,
			Amount:      amount,
			Type:        domain.TransactionType(strings.ToLower(cell(row, "type"))),
			Category:    strings.ToLower(cell(row, "category")),
			Description: cell(row, "description"),
			Vendor:      cell(row, "vendor"),
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		txns = append(txns, tx)
	}

	return txns, nil
}

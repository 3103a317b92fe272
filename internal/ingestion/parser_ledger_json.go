package ingestion

import (
	"encoding/json"
	"fmt"

	"github.com/llcledger/tracker/internal/domain"
)

// ParseLedgerJSON parses a JSON array of ledger transactions.
func ParseLedgerJSON(data []byte) ([]domain.LedgerTransaction, error) {
	var txns []domain.LedgerTransaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	for i := range txns {
		if err := txns[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return txns, nil
}

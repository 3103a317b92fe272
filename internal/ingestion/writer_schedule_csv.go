package ingestion

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/llcledger/tracker/internal/domain"
)

// ScheduleHeader is the header WriteScheduleCSV emits; ParseScheduleCSV
// recognises every column in it.
var ScheduleHeader = []string{
	"Payment #", "Due Date", "Scheduled Payment", "Principal", "Interest", "Remaining Balance",
}

// WriteScheduleCSV writes items in the layout ParseScheduleCSV reads, with
// ISO due dates and amounts to two decimal places.
func WriteScheduleCSV(w io.Writer, items []domain.ScheduledInstallment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScheduleHeader); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write([]string{
			strconv.Itoa(it.PaymentNumber),
			it.DueDate.String(),
			it.ScheduledPayment.StringFixed(2),
			it.Principal.StringFixed(2),
			it.Interest.StringFixed(2),
			it.RemainingBalance.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

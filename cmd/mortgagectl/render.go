package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/llcledger/tracker/internal/currency"
	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/reconciliation"
)

var statusLabel = map[domain.Status]string{
	domain.StatusPaid:     "Paid",
	domain.StatusVariance: "Variance",
	domain.StatusMissed:   "Missed",
	domain.StatusPending:  "Pending",
}

func reportMarkdown(schedule []domain.ReconciledInstallment, s reconciliation.Summary, asOf domain.Date, cur string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Payment Schedule as of %s\n\n", asOf)
	fmt.Fprintln(&b, "| # | Due | Scheduled | Actual | Paid On | Variance | Balance | Status |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|:---|---:|---:|:---|")
	for _, it := range schedule {
		paidOn := "-"
		if it.PaidDate != nil {
			paidOn = it.PaidDate.String()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			it.PaymentNumber,
			it.DueDate,
			currency.Format(it.ScheduledPayment, cur),
			currency.Format(it.ActualPayment, cur),
			paidOn,
			currency.FormatSigned(it.Variance, cur),
			currency.Format(it.RemainingBalance, cur),
			statusLabel[it.Status],
		)
	}

	fmt.Fprint(&b, "\n## Summary\n\n")
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Payments made | %d / %d (%.1f%%) |\n", s.PaymentsMade, s.TotalPayments, s.ProgressPercent)
	fmt.Fprintf(&b, "| Current balance | %s |\n", currency.Format(s.CurrentBalance, cur))
	fmt.Fprintf(&b, "| Total paid | %s |\n", currency.Format(s.TotalActualPaid, cur))
	fmt.Fprintf(&b, "| Interest paid | %s |\n", currency.Format(s.TotalInterestPaid, cur))
	if s.LastPaid != nil {
		fmt.Fprintf(&b, "| Last paid | #%d on %s |\n", s.LastPaid.PaymentNumber, s.LastPaid.PaidDate)
	}
	if s.NextPending != nil {
		fmt.Fprintf(&b, "| Next due | #%d on %s, %s |\n",
			s.NextPending.PaymentNumber, s.NextPending.DueDate,
			currency.Format(s.NextPending.ScheduledPayment, cur))
	}
	for _, st := range domain.Statuses {
		fmt.Fprintf(&b, "| %s | %d |\n", statusLabel[st], s.StatusCounts[st])
	}
	return b.String()
}

// printMarkdown renders md for the terminal, or prints it as-is when plain is
// set or rendering fails.
func printMarkdown(md string, plain bool) {
	if !plain {
		if out, err := glamour.Render(md, "dark"); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/currency"
	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/ingestion"
	"github.com/llcledger/tracker/internal/reconciliation"
)

// reconcileCmd holds the flags for the 'reconcile' subcommand.
type reconcileCmd struct {
	schedule string
	ledger   string
	start    string
	asOf     string
	loan     string
	currency string
	plain    bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "match a lender schedule against ledger payments" }
func (*reconcileCmd) Usage() string {
	return `mortgagectl reconcile -schedule <file.csv> -ledger <file.csv|file.json> -start <date> [-as-of <date>] [-loan <amount>]

  Prints every installment with the payments attributed to it and its
  status, followed by a progress summary.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "lender amortization schedule CSV")
	f.StringVar(&c.ledger, "ledger", "", "ledger export, CSV or JSON by extension")
	f.StringVar(&c.start, "start", "", "mortgage start date; earlier payments are ignored")
	f.StringVar(&c.asOf, "as-of", domain.Today().String(), "unpaid installments due before this date are missed")
	f.StringVar(&c.loan, "loan", "0", "original loan amount, the balance shown before any payment")
	f.StringVar(&c.currency, "currency", currency.Default, "currency used to display amounts")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of rendering it")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.schedule == "" || c.ledger == "" || c.start == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	start, err := domain.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	asOf, err := domain.ParseDate(c.asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing as-of date: %v\n", err)
		return subcommands.ExitUsageError
	}
	loan, err := decimal.NewFromString(c.loan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing loan amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !currency.Supported(c.currency) {
		fmt.Fprintf(os.Stderr, "Unknown currency %q\n", c.currency)
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(c.schedule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading schedule: %v\n", err)
		return subcommands.ExitFailure
	}
	schedule, err := ingestion.ParseScheduleCSV(data, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing schedule: %v\n", err)
		return subcommands.ExitFailure
	}

	txns, err := readLedger(c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	reconciled := reconciliation.DefaultPolicy().Reconcile(reconciliation.Input{
		Schedule:     schedule,
		Transactions: txns,
		StartDate:    start,
		AsOf:         asOf,
	})
	summary := reconciliation.Summarize(reconciled, loan)

	printMarkdown(reportMarkdown(reconciled, summary, asOf, c.currency), c.plain)
	return subcommands.ExitSuccess
}

func readLedger(path string) ([]domain.LedgerTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ingestion.ParseLedgerJSON(data)
	}
	return ingestion.ParseLedgerCSV(data)
}

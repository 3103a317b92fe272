package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/amortization"
	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/ingestion"
)

// amortizeCmd holds the flags for the 'amortize' subcommand.
type amortizeCmd struct {
	amount string
	rate   string
	years  int
	first  string
}

func (*amortizeCmd) Name() string     { return "amortize" }
func (*amortizeCmd) Synopsis() string { return "print a fixed-rate amortization schedule as CSV" }
func (*amortizeCmd) Usage() string {
	return `mortgagectl amortize -amount <loan> -rate <percent> [-years <n>] -first <date>

  Writes an importable schedule CSV to stdout.
`
}

func (c *amortizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "loan amount")
	f.StringVar(&c.rate, "rate", "", "annual interest rate in percent, e.g. 6.5")
	f.IntVar(&c.years, "years", 30, "term in years")
	f.StringVar(&c.first, "first", "", "due date of the first installment")
}

func (c *amortizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
		return subcommands.ExitUsageError
	}
	first, err := domain.ParseDate(c.first)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing first due date: %v\n", err)
		return subcommands.ExitUsageError
	}

	loan := amortization.Loan{
		Principal:  amount,
		AnnualRate: rate,
		Months:     c.years * 12,
		FirstDue:   first,
	}
	items, err := loan.Schedule("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building schedule: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := ingestion.WriteScheduleCSV(os.Stdout, items); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schedule: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

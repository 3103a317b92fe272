// Command generate writes the demo mortgage, its lender schedule and a ledger
// export into testdata/. The server seeds an empty database from these files.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/llcledger/tracker/internal/amortization"
	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/ingestion"
)

const lender = "First Harbor Bank"

type mortgageRecord struct {
	PropertyAddress string          `json:"property_address"`
	LenderName      string          `json:"lender_name"`
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TermYears       int             `json:"term_years"`
	StartDate       domain.Date     `json:"start_date"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
}

type txnRecord struct {
	ID          string                 `json:"id"`
	Date        domain.Date            `json:"date"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Vendor      string                 `json:"vendor"`
}

func main() {
	baseDir := findTestdataDir()

	loan := amortization.Loan{
		Principal:  decimal.NewFromInt(240000),
		AnnualRate: decimal.RequireFromString("6.5"),
		Months:     360,
		FirstDue:   domain.NewDate(2024, 2, 1),
	}
	schedule, err := loan.Schedule("")
	if err != nil {
		panic(err)
	}

	writeJSONFile(filepath.Join(baseDir, "mortgage.json"), mortgageRecord{
		PropertyAddress: "418 Alder Street, Unit 2, Portland, OR 97204",
		LenderName:      lender,
		LoanAmount:      loan.Principal,
		InterestRate:    loan.AnnualRate,
		TermYears:       30,
		StartDate:       domain.NewDate(2024, 1, 1),
		MonthlyPayment:  loan.MonthlyPayment(),
	})
	fmt.Println("Generated mortgage -> mortgage.json")

	f, err := os.Create(filepath.Join(baseDir, "schedule.csv"))
	if err != nil {
		panic(err)
	}
	if err := ingestion.WriteScheduleCSV(f, schedule); err != nil {
		panic(err)
	}
	if err := f.Close(); err != nil {
		panic(err)
	}
	fmt.Printf("Generated %d installments -> schedule.csv\n", len(schedule))

	txns := mortgagePayments(schedule[:17])
	txns = append(txns, propertyCashflow()...)
	writeJSONFile(filepath.Join(baseDir, "transactions.json"), txns)
	fmt.Printf("Generated %d ledger transactions -> transactions.json\n", len(txns))

	fmt.Println("Test data generation complete.")
}

// mortgagePayments pays each installment five days early, except for a few
// that exercise the other outcomes:
//
//	#4  never paid
//	#7  paid in two parts
//	#10 overpaid by 100.00
//	#13 paid three days late, so it lands in #14's window
func mortgagePayments(items []domain.ScheduledInstallment) []txnRecord {
	var out []txnRecord
	pay := func(id string, date domain.Date, amount decimal.Decimal, n int) {
		out = append(out, txnRecord{
			ID:          id,
			Date:        date,
			Amount:      amount,
			Type:        domain.TypeExpense,
			Category:    domain.CategoryMortgage,
			Description: fmt.Sprintf("Mortgage payment #%d", n),
			Vendor:      lender,
		})
	}

	for _, it := range items {
		id := fmt.Sprintf("mtg-%03d", it.PaymentNumber)
		early := it.DueDate.AddDays(-5)
		switch it.PaymentNumber {
		case 4:
		case 7:
			first := decimal.NewFromInt(800)
			pay(id+"a", it.DueDate.AddDays(-8), first, it.PaymentNumber)
			pay(id+"b", it.DueDate.AddDays(-2), it.ScheduledPayment.Sub(first), it.PaymentNumber)
		case 10:
			pay(id, early, it.ScheduledPayment.Add(decimal.NewFromInt(100)), it.PaymentNumber)
		case 13:
			pay(id, it.DueDate.AddDays(3), it.ScheduledPayment, it.PaymentNumber)
		default:
			pay(id, early, it.ScheduledPayment, it.PaymentNumber)
		}
	}
	return out
}

// propertyCashflow is the rest of the LLC's ledger: rent plus running costs.
func propertyCashflow() []txnRecord {
	var out []txnRecord
	first := domain.NewDate(2024, 1, 1)
	for i := 0; i < 18; i++ {
		month := first.AddMonths(i)
		out = append(out, txnRecord{
			ID:          fmt.Sprintf("rent-%s", month.String()[:7]),
			Date:        month.AddDays(2),
			Amount:      decimal.NewFromInt(2450),
			Type:        domain.TypeIncome,
			Category:    "rent",
			Description: "Monthly rent",
			Vendor:      "Tenant - Unit 2",
		})
		if i%3 == 0 {
			out = append(out, txnRecord{
				ID:          fmt.Sprintf("util-%s", month.String()[:7]),
				Date:        month.AddDays(19),
				Amount:      decimal.RequireFromString("212.40"),
				Type:        domain.TypeExpense,
				Category:    "utilities",
				Description: "Quarterly water and sewer",
				Vendor:      "Portland Water Bureau",
			})
		}
	}

	for _, year := range []int{2024, 2025} {
		out = append(out, txnRecord{
			ID:          fmt.Sprintf("ins-%d", year),
			Date:        domain.NewDate(year, 1, 15),
			Amount:      decimal.NewFromInt(1380),
			Type:        domain.TypeExpense,
			Category:    "insurance",
			Description: "Landlord policy renewal",
			Vendor:      "Cascade Mutual",
		})
	}

	out = append(out, txnRecord{
		ID:          "repair-2024-09",
		Date:        domain.NewDate(2024, 9, 12),
		Amount:      decimal.RequireFromString("685.00"),
		Type:        domain.TypeExpense,
		Category:    "repairs",
		Description: "Water heater replacement",
		Vendor:      "Rose City Plumbing",
	})
	return out
}

func writeJSONFile(path string, v any) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
}

func findTestdataDir() string {
	for _, c := range []string{"testdata", "../testdata", "../../testdata"} {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "testdata"
}

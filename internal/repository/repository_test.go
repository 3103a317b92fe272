package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llcledger/tracker/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testMortgage(id string, created time.Time) *domain.Mortgage {
	return &domain.Mortgage{
		ID:              id,
		PropertyAddress: "418 Alder Street",
		LenderName:      "First Harbor Bank",
		LoanAmount:      decimal.RequireFromString("240000.00"),
		InterestRate:    decimal.RequireFromString("6.5"),
		TermYears:       30,
		StartDate:       domain.NewDate(2024, 1, 1),
		MonthlyPayment:  decimal.RequireFromString("1516.96"),
		CreatedAt:       created,
	}
}

func testTxn(id string, date domain.Date, amount string, typ domain.TransactionType, category string) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		ID:        id,
		Date:      date,
		Amount:    decimal.RequireFromString(amount),
		Type:      typ,
		Category:  category,
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMortgageRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMortgageRepo(newTestDB(t))

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	older := testMortgage("m1", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	newer := testMortgage("m2", time.Date(2024, 1, 1, 9, 0, 0, 500, time.UTC))
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	got, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "418 Alder Street", got.PropertyAddress)
	assert.True(t, got.LoanAmount.Equal(decimal.NewFromInt(240000)))
	assert.Equal(t, domain.NewDate(2024, 1, 1), got.StartDate)
	assert.True(t, got.CreatedAt.Equal(older.CreatedAt))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m2", latest.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].ID)

	older.LenderName = "Harbor Credit Union"
	older.MonthlyPayment = decimal.RequireFromString("1600.00")
	require.NoError(t, repo.Update(ctx, older))
	got, err = repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Credit Union", got.LenderName)
	assert.True(t, got.MonthlyPayment.Equal(decimal.NewFromInt(1600)))

	assert.ErrorIs(t, repo.Update(ctx, testMortgage("nope", time.Now())), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "m1"))
	_, err = repo.GetByID(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "m1"), ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScheduleRepo_ReplaceSchedule(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mortgages := NewMortgageRepo(db)
	repo := NewScheduleRepo(db)
	require.NoError(t, mortgages.Insert(ctx, testMortgage("m1", time.Now())))

	_, err := repo.LatestImport(ctx, "m1")
	assert.ErrorIs(t, err, ErrNotFound)

	item := func(id string, n int) domain.ScheduledInstallment {
		return domain.ScheduledInstallment{
			ID:               id,
			MortgageID:       "m1",
			PaymentNumber:    n,
			DueDate:          domain.NewDate(2024, 1, 1).AddMonths(n),
			ScheduledPayment: decimal.RequireFromString("1516.96"),
			Principal:        decimal.RequireFromString("216.96"),
			Interest:         decimal.RequireFromString("1300.00"),
			RemainingBalance: decimal.RequireFromString("239783.04"),
		}
	}

	first := &domain.ScheduleImport{ID: "i1", MortgageID: "m1", FileHash: "aaa", RowCount: 2, ImportedAt: time.Now()}
	n, err := repo.ReplaceSchedule(ctx, first, []domain.ScheduledInstallment{item("a2", 2), item("a1", 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := repo.ListByMortgage(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].PaymentNumber)
	assert.Equal(t, domain.NewDate(2024, 2, 1), items[0].DueDate)
	assert.True(t, items[0].Interest.Equal(decimal.NewFromInt(1300)))

	second := &domain.ScheduleImport{ID: "i2", MortgageID: "m1", FileHash: "bbb", RowCount: 1, ImportedAt: first.ImportedAt}
	_, err = repo.ReplaceSchedule(ctx, second, []domain.ScheduledInstallment{item("b1", 1)})
	require.NoError(t, err)

	items, err = repo.ListByMortgage(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0].ID)

	latest, err := repo.LatestImport(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "i2", latest.ID)
	assert.Equal(t, "bbb", latest.FileHash)

	// A failed insert leaves the previous schedule untouched.
	third := &domain.ScheduleImport{ID: "i3", MortgageID: "m1", FileHash: "ccc", RowCount: 2, ImportedAt: time.Now()}
	_, err = repo.ReplaceSchedule(ctx, third, []domain.ScheduledInstallment{item("c1", 1), item("c2", 1)})
	require.Error(t, err)
	items, err = repo.ListByMortgage(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0].ID)

	// Deleting the mortgage cascades to its schedule.
	require.NoError(t, mortgages.Delete(ctx, "m1"))
	items, err = repo.ListByMortgage(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTransactionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(newTestDB(t))

	txns := []domain.LedgerTransaction{
		testTxn("t1", domain.NewDate(2024, 1, 27), "1516.96", domain.TypeExpense, domain.CategoryMortgage),
		testTxn("t2", domain.NewDate(2024, 1, 3), "2450", domain.TypeIncome, "rent"),
		testTxn("t3", domain.NewDate(2024, 2, 20), "212.40", domain.TypeExpense, "utilities"),
		testTxn("t4", domain.NewDate(2024, 2, 25), "1516.96", domain.TypeExpense, domain.CategoryMortgage),
	}
	n, err := repo.BulkInsert(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.BulkInsert(ctx, txns[:2])
	require.NoError(t, err)
	assert.Zero(t, n, "existing IDs are skipped")

	created, err := repo.Insert(ctx, &txns[0])
	require.NoError(t, err)
	assert.False(t, created)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"t2", "t1", "t3", "t4"}, ids(all))
	assert.Equal(t, domain.TypeIncome, all[0].Type)

	got, err := repo.GetByID(ctx, "t3")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("212.4")))
	assert.True(t, got.CreatedAt.Equal(txns[2].CreatedAt))

	totals, err := repo.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, totals.Count)
	assert.Equal(t, "2450", totals.Income.String())
	assert.Equal(t, "3246.32", totals.Expense.String())
	assert.Equal(t, "3033.92", totals.MortgagePaid.String())
	assert.Equal(t, "-796.32", totals.Net.String())

	require.NoError(t, repo.Delete(ctx, "t3"))
	assert.ErrorIs(t, repo.Delete(ctx, "t3"), ErrNotFound)
	_, err = repo.GetByID(ctx, "t3")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTransactionRepo_List(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(newTestDB(t))

	var txns []domain.LedgerTransaction
	for i := 0; i < 6; i++ {
		txns = append(txns, testTxn(
			"m"+string(rune('a'+i)), domain.NewDate(2024, 1, 27).AddMonths(i), "1516.96",
			domain.TypeExpense, domain.CategoryMortgage))
		txns = append(txns, testTxn(
			"r"+string(rune('a'+i)), domain.NewDate(2024, 1, 3).AddMonths(i), "2450",
			domain.TypeIncome, "rent"))
	}
	_, err := repo.BulkInsert(ctx, txns)
	require.NoError(t, err)

	page, total, err := repo.List(ctx, TransactionFilter{Category: domain.CategoryMortgage, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Equal(t, []string{"mf", "me", "md", "mc"}, ids(page))

	page, _, err = repo.List(ctx, TransactionFilter{Category: domain.CategoryMortgage, Limit: 4, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"mb", "ma"}, ids(page))

	from, to := domain.NewDate(2024, 2, 1), domain.NewDate(2024, 3, 31)
	page, total, err = repo.List(ctx, TransactionFilter{Type: string(domain.TypeIncome), From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"rc", "rb"}, ids(page))
}

func ids(txns []domain.LedgerTransaction) []string {
	out := make([]string, len(txns))
	for i, tx := range txns {
		out[i] = tx.ID
	}
	return out
}

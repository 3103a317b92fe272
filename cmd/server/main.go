package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llcledger/tracker/internal/api"
	"github.com/llcledger/tracker/internal/config"
	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/ingestion"
	"github.com/llcledger/tracker/internal/logger"
	"github.com/llcledger/tracker/internal/reconciliation"
	"github.com/llcledger/tracker/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	log.Info().Str("path", cfg.DBPath).Msg("Initializing database")
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init DB")
	}
	defer db.Close()

	// Create repositories.
	mortgageRepo := repository.NewMortgageRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	txnRepo := repository.NewTransactionRepo(db)

	// Create services.
	reconSvc := reconciliation.NewService(mortgageRepo, scheduleRepo, txnRepo, log)
	ingestionSvc := ingestion.NewService(mortgageRepo, scheduleRepo, txnRepo, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed demo data if DB is empty.
	count, err := mortgageRepo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count mortgages")
	}
	if count == 0 {
		log.Info().Str("dir", cfg.SeedDir).Msg("Database is empty, seeding demo data")
		if err := seedDemoData(ctx, cfg.SeedDir, mortgageRepo, ingestionSvc, log); err != nil {
			log.Warn().Err(err).Msg("Failed to seed demo data")
		}
	} else {
		log.Info().Int("mortgages", count).Msg("Database already has data, skipping seed")
	}

	router := api.NewRouter(mortgageRepo, txnRepo, reconSvc, ingestionSvc, log)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("addr", "http://localhost"+cfg.Addr()+"/api/v1").Msg("LLC mortgage tracker listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

// seedDemoData loads mortgage.json, schedule.csv and transactions.json from
// dir, as written by testdata/generate.
func seedDemoData(
	ctx context.Context,
	dir string,
	mortgageRepo *repository.MortgageRepo,
	ingestionSvc *ingestion.Service,
	log zerolog.Logger,
) error {
	data, err := os.ReadFile(filepath.Join(dir, "mortgage.json"))
	if err != nil {
		return fmt.Errorf("read mortgage: %w", err)
	}
	var m domain.Mortgage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshal mortgage: %w", err)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("seed mortgage: %w", err)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()
	if err := mortgageRepo.Insert(ctx, &m); err != nil {
		return err
	}

	schedule, err := os.ReadFile(filepath.Join(dir, "schedule.csv"))
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}
	imp, err := ingestionSvc.ImportSchedule(ctx, m.ID, schedule)
	if err != nil {
		return fmt.Errorf("import schedule: %w", err)
	}

	ledger, err := os.ReadFile(filepath.Join(dir, "transactions.json"))
	if err != nil {
		return fmt.Errorf("read transactions: %w", err)
	}
	res, err := ingestionSvc.ImportTransactions(ctx, ledger, ingestion.FormatJSON)
	if err != nil {
		return fmt.Errorf("import transactions: %w", err)
	}

	log.Info().
		Str("mortgage_id", m.ID).
		Int("installments", imp.RowsImported).
		Int("transactions", res.RecordsImported).
		Msg("Seeded demo data")
	return nil
}

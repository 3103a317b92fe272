package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/llcledger/tracker/internal/ingestion"
	"github.com/llcledger/tracker/internal/reconciliation"
	"github.com/llcledger/tracker/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	mortgageRepo *repository.MortgageRepo,
	txnRepo *repository.TransactionRepo,
	reconSvc *reconciliation.Service,
	ingestionSvc *ingestion.Service,
	log zerolog.Logger,
) http.Handler {
	h := &Handlers{
		mortgageRepo: mortgageRepo,
		txnRepo:      txnRepo,
		reconSvc:     reconSvc,
		ingestionSvc: ingestionSvc,
		log:          log.With().Str("component", "api").Logger(),
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Mortgages.
		r.Post("/mortgages", h.CreateMortgage)
		r.Get("/mortgages", h.ListMortgages)
		r.Route("/mortgages/{id}", func(r chi.Router) {
			r.Get("/", h.GetMortgage)
			r.Put("/", h.UpdateMortgage)
			r.Delete("/", h.DeleteMortgage)

			// Amortization schedule.
			r.Post("/schedule/import", h.ImportSchedule)
			r.Get("/schedule", h.GetSchedule)
			r.Get("/summary", h.GetSummary)
		})

		// Ledger.
		r.Post("/transactions", h.CreateTransaction)
		r.Get("/transactions", h.ListTransactions)
		r.Post("/transactions/import", h.ImportTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Delete("/transactions/{id}", h.DeleteTransaction)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}

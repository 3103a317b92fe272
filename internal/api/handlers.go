package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llcledger/tracker/internal/domain"
	"github.com/llcledger/tracker/internal/ingestion"
	"github.com/llcledger/tracker/internal/logger"
	"github.com/llcledger/tracker/internal/reconciliation"
	"github.com/llcledger/tracker/internal/repository"
)

const maxUploadBytes = 32 << 20

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	mortgageRepo *repository.MortgageRepo
	txnRepo      *repository.TransactionRepo
	reconSvc     *reconciliation.Service
	ingestionSvc *ingestion.Service
	log          zerolog.Logger
}

// --- helpers ---

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps storage and ingestion errors to HTTP statuses. Anything
// unrecognised is logged with the request's logger and reported as a 500.
func (h *Handlers) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ingestion.ErrDuplicateTransaction):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ingestion.ErrInvalidFile),
		errors.Is(err, ingestion.ErrUnsupportedFormat):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log := logger.FromContextOr(r.Context(), h.log)
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseDate(s string) *domain.Date {
	if s == "" {
		return nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// asOfParam reads the as_of query parameter, defaulting to today.
func asOfParam(r *http.Request) (domain.Date, error) {
	s := r.URL.Query().Get("as_of")
	if s == "" {
		return domain.Today(), nil
	}
	return domain.ParseDate(s)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// readUpload returns the "file" part of a multipart form, or the raw body
// for any other content type.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file field is required: %w", err)
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("request body is empty")
	}
	return data, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Mortgages ---

func (h *Handlers) CreateMortgage(w http.ResponseWriter, r *http.Request) {
	var m domain.Mortgage
	if err := decodeBody(r, &m); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := m.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	if err := h.mortgageRepo.Insert(r.Context(), &m); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, m)
}

func (h *Handlers) ListMortgages(w http.ResponseWriter, r *http.Request) {
	mortgages, err := h.mortgageRepo.List(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if mortgages == nil {
		mortgages = []domain.Mortgage{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"mortgages": mortgages,
		"total":     len(mortgages),
	})
}

func (h *Handlers) GetMortgage(w http.ResponseWriter, r *http.Request) {
	m, err := h.mortgageRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) UpdateMortgage(w http.ResponseWriter, r *http.Request) {
	existing, err := h.mortgageRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	updated := *existing
	if err := decodeBody(r, &updated); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := updated.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.mortgageRepo.Update(r.Context(), &updated); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteMortgage(w http.ResponseWriter, r *http.Request) {
	if err := h.mortgageRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Schedule ---

func (h *Handlers) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.ingestionSvc.ImportSchedule(r.Context(), chi.URLParam(r, "id"), data)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyImported {
		status = http.StatusOK
	}
	h.writeJSON(w, status, result)
}

func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid as_of: "+err.Error())
		return
	}

	res, err := h.reconSvc.ReconcileMortgage(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"mortgage_id": res.Mortgage.ID,
		"as_of":       res.AsOf,
		"schedule":    res.Schedule,
		"total":       len(res.Schedule),
	})
}

func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid as_of: "+err.Error())
		return
	}

	res, err := h.reconSvc.ReconcileMortgage(r.Context(), chi.URLParam(r, "id"), asOf)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"mortgage_id": res.Mortgage.ID,
		"as_of":       res.AsOf,
		"summary":     res.Summary,
	})
}

// --- Ledger ---

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx domain.LedgerTransaction
	if err := decodeBody(r, &tx); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := tx.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.ingestionSvc.AddTransaction(r.Context(), &tx); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tx)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TransactionFilter{
		Type:     q.Get("type"),
		Category: q.Get("category"),
		From:     parseDate(q.Get("from")),
		To:       parseDate(q.Get("to")),
		Page:     parseIntDefault(q.Get("page"), 1),
		Limit:    parseIntDefault(q.Get("limit"), 50),
	}

	txns, total, err := h.txnRepo.List(r.Context(), filter)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if txns == nil {
		txns = []domain.LedgerTransaction{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

func (h *Handlers) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Query string, or a form field next to the uploaded file.
	format := r.FormValue("format")
	if format == "" {
		format = ingestion.FormatCSV
	}

	result, err := h.ingestionSvc.ImportTransactions(r.Context(), data, format)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txnRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.txnRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Dashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid as_of: "+err.Error())
		return
	}

	dash, err := h.reconSvc.Dashboard(r.Context(), asOf)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dash)
}

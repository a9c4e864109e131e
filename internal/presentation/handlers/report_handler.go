package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/application/services"
	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

const (
	defaultDatesLimit = 30
	maxDatesLimit     = 366
)

// ReportHandler serves stored volume reports
type ReportHandler struct {
	service *services.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports", h.ListDates)
	r.Get("/reports/{date}", h.GetReport)
	r.Get("/reports/{date}/wallets/{address}", h.GetWalletReport)
}

// ListDates handles GET /api/v1/reports
func (h *ReportHandler) ListDates(w http.ResponseWriter, r *http.Request) {
	limit := defaultDatesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxDatesLimit {
		limit = maxDatesLimit
	}

	response, err := h.service.ListDates(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list report dates", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetReport handles GET /api/v1/reports/{date}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(chi.URLParam(r, "date"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	response, err := h.service.GetReport(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to get report", zap.Error(err), zap.String("date", date.Format(entities.DateLayout)))
		respondError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}

	if response == nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetWalletReport handles GET /api/v1/reports/{date}/wallets/{address}
func (h *ReportHandler) GetWalletReport(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDate(chi.URLParam(r, "date"))
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	address := chi.URLParam(r, "address")
	if !isValidAddress(address) {
		respondError(w, http.StatusBadRequest, "Invalid address format")
		return
	}
	address = entities.NormalizeAddress(address)

	response, err := h.service.GetWalletReport(r.Context(), date, address)
	if err != nil {
		h.logger.Error("Failed to get wallet report", zap.Error(err), zap.String("address", address))
		respondError(w, http.StatusInternalServerError, "Failed to get wallet report")
		return
	}

	if response == nil {
		respondError(w, http.StatusNotFound, "wallet report not found")
		return
	}

	respondJSON(w, http.StatusOK, response)
}

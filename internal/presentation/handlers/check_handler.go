package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/application/services"
	"github.com/bimakw/dex-volume-checker/internal/infrastructure/subgraph"
)

const (
	maxCheckBodyBytes = 1 << 20
	maxCheckAddresses = 500
)

// CheckHandler runs volume checks on demand
type CheckHandler struct {
	service          *services.VolumeService
	defaultThreshold float64
	logger           *zap.Logger
	now              func() time.Time
}

// NewCheckHandler creates a new check handler
func NewCheckHandler(service *services.VolumeService, defaultThreshold float64, logger *zap.Logger) *CheckHandler {
	return &CheckHandler{
		service:          service,
		defaultThreshold: defaultThreshold,
		logger:           logger,
		now:              time.Now,
	}
}

// CheckRequest is the body of POST /checks
type CheckRequest struct {
	Addresses    []string `json:"addresses"`
	Date         string   `json:"date,omitempty"`
	ThresholdUSD *float64 `json:"threshold_usd,omitempty"`
}

// RegisterRoutes registers the check routes
func (h *CheckHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checks", h.RunCheck)
}

// RunCheck handles POST /api/v1/checks
func (h *CheckHandler) RunCheck(w http.ResponseWriter, r *http.Request) {
	var body CheckRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCheckBodyBytes))
	if err := dec.Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(body.Addresses) == 0 {
		respondError(w, http.StatusBadRequest, services.ErrEmptyAddressSet.Error())
		return
	}
	if len(body.Addresses) > maxCheckAddresses {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("at most %d addresses per check", maxCheckAddresses))
		return
	}
	for _, addr := range body.Addresses {
		if !isValidAddress(addr) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid address format: %s", addr))
			return
		}
	}

	// defaults to the previous UTC day, the most recent complete one
	date := h.now().UTC().AddDate(0, 0, -1)
	if body.Date != "" {
		d, ok := parseDate(body.Date)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = d
	}

	threshold := h.defaultThreshold
	if body.ThresholdUSD != nil {
		if *body.ThresholdUSD < 0 {
			respondError(w, http.StatusBadRequest, "threshold_usd must not be negative")
			return
		}
		threshold = *body.ThresholdUSD
	}

	report, err := h.service.Check(r.Context(), services.CheckRequest{
		Addresses:    body.Addresses,
		Date:         date,
		ThresholdUSD: threshold,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyAddressSet):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, subgraph.ErrAllEndpointsFailed):
			h.logger.Error("Volume check failed", zap.Error(err))
			respondError(w, http.StatusBadGateway, "All subgraph endpoints failed")
		case errors.Is(err, context.DeadlineExceeded):
			respondError(w, http.StatusGatewayTimeout, "Volume check timed out")
		default:
			h.logger.Error("Volume check failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to run volume check")
		}
		return
	}

	respondJSON(w, http.StatusOK, services.NewVolumeReportResponse(report))
}

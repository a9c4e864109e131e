package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines the interface for health checking components
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type healthComponent struct {
	name     string
	checker  HealthChecker
	required bool
}

// HealthHandler handles health check requests
type HealthHandler struct {
	components []healthComponent
}

// NewHealthHandler creates a new health handler. A failing database makes the
// service unhealthy; a failing cache only degrades it. Either may be nil.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	h := &HealthHandler{}
	if db != nil {
		h.components = append(h.components, healthComponent{name: "database", checker: db, required: true})
	}
	if cache != nil {
		h.components = append(h.components, healthComponent{name: "cache", checker: cache})
	}
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(h.components)),
	}

	for _, c := range h.components {
		if err := c.checker.HealthCheck(ctx); err != nil {
			response.Services[c.name] = "unhealthy: " + err.Error()
			if c.required {
				response.Status = "unhealthy"
			} else if response.Status == "healthy" {
				response.Status = "degraded"
			}
			continue
		}
		response.Services[c.name] = "healthy"
	}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, response)
}

// Ready handles GET /ready (Kubernetes readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, c := range h.components {
		if !c.required {
			continue
		}
		if err := c.checker.HealthCheck(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// Live handles GET /live (Kubernetes liveness probe)
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

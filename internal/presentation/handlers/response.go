package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
	"github.com/bimakw/dex-volume-checker/internal/wallets"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// isValidAddress checks if the string is a valid Ethereum address
func isValidAddress(addr string) bool {
	return wallets.IsValidAddress(addr)
}

// parseDate parses a YYYY-MM-DD path or body value
func parseDate(s string) (time.Time, bool) {
	d, err := entities.ParseDay(s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

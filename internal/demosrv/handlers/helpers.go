// Package handlers contains HTTP request handlers for the RoadGuard demo
// backend. Handlers parse requests, call the store, and return JSON.
package handlers

import (
	"encoding/json"
	"net/http"
)

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// backend/src/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/bsm/src/logger"
)

type jsonErrorResponse struct {
	Error string `json:"error"`
}

func sendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, jsonErrorResponse{Error: message})
}

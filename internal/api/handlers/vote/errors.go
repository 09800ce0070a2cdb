package vote

import (
	"LemmyVotes/internal/core/votes"
	"encoding/json"
	"log"
	"net/http"
)

// errorResponse represents a standardized JSON error response
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError maps retrieval errors to HTTP responses.
// Not-found and data-source failures stay distinguishable for clients: the
// former is the URL's fault, the latter is ours.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case votes.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", err.Error())

	case votes.IsDataSourceError(err):
		log.Printf("Data source error in votes handler: %v", err)
		writeError(w, http.StatusBadGateway, "DataSourceError",
			"The vote database is unavailable")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in votes handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}

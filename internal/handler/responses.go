// Package handler implements the HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ardika/attendman/internal/model"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse writes the unified error envelope.
func writeAPIErrorResponse(w http.ResponseWriter, status int, apiErr *model.APIError) {
	writeJSON(w, status, apiErr)
}

// handleServiceError maps service-level failures to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	var storeErr *model.StoreError
	if errors.As(err, &storeErr) {
		writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
			Code:     model.ErrCodeStoreFailure,
			Message:  "store write rejected",
			Category: "store",
		})
		return
	}

	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "internal server error",
		Category: "system",
	})
}

// validDate reports whether s is a calendar date in YYYY-MM-DD form.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

package handler

import (
	"net/http"
	"time"

	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/report"
)

// BoardHandler serves the public display board: every member's scraped
// status and reconciled manual check-in for one date.
type BoardHandler struct {
	service  *report.Service
	location *time.Location
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(service *report.Service, location *time.Location) *BoardHandler {
	return &BoardHandler{service: service, location: location}
}

// Board returns the board rows for one date, defaulting to today.
// GET /api/board?date=
func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().In(h.location).Format("2006-01-02")
	} else if !validDate(date) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(date))
		return
	}

	rows, err := h.service.Board(r.Context(), date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date": date,
		"rows": rows,
	})
}

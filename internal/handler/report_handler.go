package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/report"
)

// ReportHandler builds the classified daily roster and the pasteable text
// report.
type ReportHandler struct {
	service  *report.Service
	location *time.Location
}

// NewReportHandler creates a ReportHandler. location supplies "today" when
// no date parameter is given.
func NewReportHandler(service *report.Service, location *time.Location) *ReportHandler {
	return &ReportHandler{service: service, location: location}
}

type rosterEntryResponse struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	StatusCode  string `json:"status_code"`
}

type dailyReportResponse struct {
	Date   string                `json:"date"`
	Shift1 []rosterEntryResponse `json:"shift1"`
	Shift2 []rosterEntryResponse `json:"shift2"`
	Leave  []rosterEntryResponse `json:"leave"`
	Absent []rosterEntryResponse `json:"absent"`
	Text   string                `json:"text"`
}

type dailyReportRequest struct {
	Date     string   `json:"date"`
	ToShift2 []string `json:"to_shift2"`
	ToShift1 []string `json:"to_shift1"`
}

// Daily returns the classified roster and composed text for one date.
// GET /api/reports/daily?date=
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	date, ok := h.resolveDate(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}

	group, text, err := h.service.DailyRoster(r.Context(), date, report.Overrides{})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyReportResponse(group, text))
}

// DailyWithOverrides classifies the roster, then applies the requested
// shift1/shift2 moves to the in-memory group before composing. Nothing is
// persisted.
// POST /api/reports/daily
func (h *ReportHandler) DailyWithOverrides(w http.ResponseWriter, r *http.Request) {
	var req dailyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidPayload,
			Message:  "failed to parse request body",
			Category: "validation",
		})
		return
	}

	date, ok := h.resolveDate(w, req.Date)
	if !ok {
		return
	}

	group, text, err := h.service.DailyRoster(r.Context(), date, report.Overrides{
		ToShift2: req.ToShift2,
		ToShift1: req.ToShift1,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyReportResponse(group, text))
}

// resolveDate validates the date parameter, defaulting to today in the
// report timezone when empty. On failure the error response has already
// been written.
func (h *ReportHandler) resolveDate(w http.ResponseWriter, date string) (string, bool) {
	if date == "" {
		return time.Now().In(h.location).Format("2006-01-02"), true
	}
	if !validDate(date) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(date))
		return "", false
	}
	return date, true
}

func toDailyReportResponse(group *model.RosterGroup, text string) dailyReportResponse {
	return dailyReportResponse{
		Date:   group.Date,
		Shift1: toEntryResponses(group.Shift1),
		Shift2: toEntryResponses(group.Shift2),
		Leave:  toEntryResponses(group.Leave),
		Absent: toEntryResponses(group.Absent),
		Text:   text,
	}
}

func toEntryResponses(entries []model.RosterEntry) []rosterEntryResponse {
	resp := make([]rosterEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, rosterEntryResponse{
			MemberID:    e.MemberID,
			DisplayName: e.DisplayName,
			StatusCode:  string(e.StatusCode),
		})
	}
	return resp
}

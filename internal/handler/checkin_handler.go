package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/repository"
)

// checkInTimePattern accepts HH:MM and HH:MM:SS clock times.
var checkInTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

// CheckInHandler manages manually entered check-in times.
type CheckInHandler struct {
	members  repository.MemberRepository
	checkins repository.CheckInRepository
}

// NewCheckInHandler creates a CheckInHandler.
func NewCheckInHandler(members repository.MemberRepository, checkins repository.CheckInRepository) *CheckInHandler {
	return &CheckInHandler{members: members, checkins: checkins}
}

type checkInRequest struct {
	MemberID    string `json:"member_id"`
	Date        string `json:"date"`
	CheckInTime string `json:"check_in_time"`
}

type checkInResponse struct {
	MemberID    string `json:"member_id"`
	Date        string `json:"date"`
	CheckInTime string `json:"check_in_time"`
}

// Upsert writes a manual check-in for one member and date. Re-submission
// replaces the previous value.
// PUT /api/checkins
func (h *CheckInHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidPayload,
			Message:  "failed to parse request body",
			Category: "validation",
		})
		return
	}

	if !validDate(req.Date) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(req.Date))
		return
	}
	if !checkInTimePattern.MatchString(req.CheckInTime) {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidPayload,
			Message:  "check_in_time must be HH:MM or HH:MM:SS",
			Category: "validation",
		})
		return
	}

	member, err := h.members.FindByID(r.Context(), req.MemberID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if member == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewMemberNotFoundError(req.MemberID))
		return
	}

	rec := &model.ManualCheckIn{
		MemberID:    req.MemberID,
		Date:        req.Date,
		CheckInTime: req.CheckInTime,
		UpdatedAt:   time.Now(),
	}

	if err := h.checkins.Upsert(r.Context(), rec); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkInResponse{
		MemberID:    rec.MemberID,
		Date:        rec.Date,
		CheckInTime: rec.CheckInTime,
	})
}

// ListByDate returns all manual check-ins for one date.
// GET /api/checkins?date=
func (h *CheckInHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !validDate(date) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(date))
		return
	}

	records, err := h.checkins.ListByDate(r.Context(), date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]checkInResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, checkInResponse{
			MemberID:    rec.MemberID,
			Date:        rec.Date,
			CheckInTime: rec.CheckInTime,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

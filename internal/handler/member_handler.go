package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/repository"
)

// MemberHandler manages the roster over HTTP.
type MemberHandler struct {
	members    repository.MemberRepository
	attendance repository.AttendanceRepository
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(members repository.MemberRepository, attendance repository.AttendanceRepository) *MemberHandler {
	return &MemberHandler{members: members, attendance: attendance}
}

type memberRequest struct {
	Name string `json:"name"`
	NRP  string `json:"nrp"`
}

type memberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	NRP  string `json:"nrp"`
}

type attendanceResponse struct {
	Date       string `json:"date"`
	StatusCode string `json:"status_code"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Job        string `json:"job"`
	Flagged    bool   `json:"flagged"`
}

// List returns the whole roster.
// GET /api/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberResponse{ID: m.ID, Name: m.Name, NRP: m.NRP})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new member.
// POST /api/members
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMemberRequest(w, r)
	if !ok {
		return
	}

	now := time.Now()
	m := &model.Member{
		ID:        uuid.NewString(),
		Name:      req.Name,
		NRP:       req.NRP,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.members.Create(r.Context(), m); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, memberResponse{ID: m.ID, Name: m.Name, NRP: m.NRP})
}

// Update rewrites a member's name and NRP.
// PUT /api/members/{id}
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.members.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewMemberNotFoundError(id))
		return
	}

	req, ok := decodeMemberRequest(w, r)
	if !ok {
		return
	}

	existing.Name = req.Name
	existing.NRP = req.NRP
	existing.UpdatedAt = time.Now()

	if err := h.members.Update(r.Context(), existing); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, memberResponse{ID: existing.ID, Name: existing.Name, NRP: existing.NRP})
}

// Delete removes a member and, by cascade, their attendance history.
// DELETE /api/members/{id}
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.members.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewMemberNotFoundError(id))
		return
	}

	if err := h.members.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAttendance returns one member's attendance history, newest first.
// GET /api/members/{id}/attendance?from=&to=
func (h *MemberHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.members.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewMemberNotFoundError(id))
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	for _, d := range []string{from, to} {
		if d != "" && !validDate(d) {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(d))
			return
		}
	}

	records, err := h.attendance.ListByMember(r.Context(), id, from, to)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]attendanceResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, attendanceResponse{
			Date:       rec.Date,
			StatusCode: string(rec.StatusCode),
			CheckIn:    rec.CheckIn,
			CheckOut:   rec.CheckOut,
			Job:        rec.Job,
			Flagged:    rec.Flagged,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// decodeMemberRequest parses and validates the member payload. On failure
// the error response has already been written.
func decodeMemberRequest(w http.ResponseWriter, r *http.Request) (*memberRequest, bool) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidPayload,
			Message:  "failed to parse request body",
			Category: "validation",
		})
		return nil, false
	}

	req.Name = strings.TrimSpace(req.Name)
	req.NRP = strings.TrimSpace(req.NRP)
	if req.Name == "" || req.NRP == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidPayload,
			Message:  "name and nrp are required",
			Category: "validation",
		})
		return nil, false
	}

	return &req, true
}

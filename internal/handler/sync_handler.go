package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardika/attendman/internal/model"
	syncer "github.com/ardika/attendman/internal/sync"
)

// SyncRunner is the part of the batch runner the HTTP layer needs.
type SyncRunner interface {
	Run(ctx context.Context) (*model.SyncSummary, error)
	Running() bool
	LastSummary() *model.SyncSummary
}

// SyncHandler exposes the manual sync trigger and the run status.
type SyncHandler struct {
	runner SyncRunner
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(runner SyncRunner) *SyncHandler {
	return &SyncHandler{runner: runner}
}

type syncSummaryResponse struct {
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	Success     int       `json:"success"`
	Fail        int       `json:"fail"`
	Errors      []string  `json:"errors"`
	LatestDates []string  `json:"latest_dates"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

type syncStatusResponse struct {
	Running     bool                 `json:"running"`
	LastSummary *syncSummaryResponse `json:"last_summary,omitempty"`
}

// Trigger runs a batch synchronously and returns its summary. A run already
// in flight answers 409 without queueing.
// POST /api/sync
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runner.Run(r.Context())
	if err != nil {
		if errors.Is(err, syncer.ErrSyncInProgress) {
			writeAPIErrorResponse(w, http.StatusConflict, model.NewSyncRunningError())
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// Status returns the running flag and the last run's summary.
// GET /api/sync/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp := syncStatusResponse{
		Running:     h.runner.Running(),
		LastSummary: toSummaryResponse(h.runner.LastSummary()),
	}
	writeJSON(w, http.StatusOK, resp)
}

func toSummaryResponse(s *model.SyncSummary) *syncSummaryResponse {
	if s == nil {
		return nil
	}
	return &syncSummaryResponse{
		Status:      string(s.Status),
		Total:       s.Total,
		Success:     s.Success,
		Fail:        s.Fail,
		Errors:      s.Errors,
		LatestDates: s.LatestDates,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ardika/attendman/internal/model"
	syncer "github.com/ardika/attendman/internal/sync"
)

type fakeRunner struct {
	summary *model.SyncSummary
	err     error
	running bool
	last    *model.SyncSummary
}

func (f *fakeRunner) Run(ctx context.Context) (*model.SyncSummary, error) {
	return f.summary, f.err
}
func (f *fakeRunner) Running() bool                  { return f.running }
func (f *fakeRunner) LastSummary() *model.SyncSummary { return f.last }

func TestTriggerReturnsSummary(t *testing.T) {
	runner := &fakeRunner{
		summary: &model.SyncSummary{
			Status:      model.RunStatusPartial,
			Total:       5,
			Success:     4,
			Fail:        1,
			Errors:      []string{"UnexpectedLayout: Maintenance"},
			LatestDates: []string{"2026-08-27"},
			StartedAt:   time.Now(),
			FinishedAt:  time.Now(),
		},
	}
	h := NewSyncHandler(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	rec := httptest.NewRecorder()
	h.Trigger(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp syncSummaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "partial" || resp.Success != 4 || resp.Fail != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestTriggerConflictWhenRunning(t *testing.T) {
	h := NewSyncHandler(&fakeRunner{err: syncer.ErrSyncInProgress})

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	rec := httptest.NewRecorder()
	h.Trigger(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var apiErr model.APIError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if apiErr.Code != model.ErrCodeSyncRunning {
		t.Errorf("code = %q, want %s", apiErr.Code, model.ErrCodeSyncRunning)
	}
}

func TestStatusWithoutPriorRun(t *testing.T) {
	h := NewSyncHandler(&fakeRunner{running: false, last: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp syncStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Running || resp.LastSummary != nil {
		t.Errorf("response = %+v, want idle with no summary", resp)
	}
}

func TestStatusWhileRunning(t *testing.T) {
	h := NewSyncHandler(&fakeRunner{
		running: true,
		last:    &model.SyncSummary{Status: model.RunStatusFull, Total: 3, Success: 3},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	var resp syncStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Running {
		t.Error("running flag should be set")
	}
	if resp.LastSummary == nil || resp.LastSummary.Status != "full" {
		t.Errorf("last summary = %+v", resp.LastSummary)
	}
}

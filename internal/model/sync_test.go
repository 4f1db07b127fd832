package model

import (
	"testing"
	"time"
)

func TestSummarizeFullRun(t *testing.T) {
	started := time.Now()
	finished := started.Add(time.Minute)

	summary := Summarize([]SyncOutcome{
		{MemberID: "a", Success: true, RecordCount: 5, LatestDate: "2026-08-27"},
		{MemberID: "b", Success: true, RecordCount: 3, LatestDate: "2026-08-27"},
	}, started, finished)

	if summary.Status != RunStatusFull {
		t.Errorf("status = %q, want full", summary.Status)
	}
	if summary.Total != 2 || summary.Success != 2 || summary.Fail != 0 {
		t.Errorf("counts = %d/%d/%d", summary.Total, summary.Success, summary.Fail)
	}
	if len(summary.Errors) != 0 {
		t.Errorf("errors = %v, want none", summary.Errors)
	}
	if len(summary.LatestDates) != 1 {
		t.Errorf("latest dates = %v, want one distinct value", summary.LatestDates)
	}
}

func TestSummarizeDeduplicatesErrorsInOrder(t *testing.T) {
	summary := Summarize([]SyncOutcome{
		{MemberID: "a", ErrorKind: "SessionExpired", ErrorDetail: "login page served instead of attendance table"},
		{MemberID: "b", ErrorKind: "Network", ErrorDetail: "timeout"},
		{MemberID: "c", ErrorKind: "SessionExpired", ErrorDetail: "login page served instead of attendance table"},
		{MemberID: "d", ErrorKind: "SessionExpired", ErrorDetail: "login page served instead of attendance table"},
	}, time.Now(), time.Now())

	if summary.Status != RunStatusFailed {
		t.Errorf("status = %q, want failed", summary.Status)
	}
	want := []string{
		"SessionExpired: login page served instead of attendance table",
		"Network: timeout",
	}
	if len(summary.Errors) != len(want) {
		t.Fatalf("errors = %v, want %v", summary.Errors, want)
	}
	for i := range want {
		if summary.Errors[i] != want[i] {
			t.Errorf("errors[%d] = %q, want %q", i, summary.Errors[i], want[i])
		}
	}
}

func TestSummarizePartial(t *testing.T) {
	summary := Summarize([]SyncOutcome{
		{MemberID: "a", Success: true, LatestDate: "2026-08-27"},
		{MemberID: "b", ErrorKind: "UnexpectedLayout"},
	}, time.Now(), time.Now())

	if summary.Status != RunStatusPartial {
		t.Errorf("status = %q, want partial", summary.Status)
	}
	if summary.Errors[0] != "UnexpectedLayout" {
		t.Errorf("kind-only error = %q", summary.Errors[0])
	}
}

func TestSummarizeLatestDateSampleCapped(t *testing.T) {
	summary := Summarize([]SyncOutcome{
		{MemberID: "a", Success: true, LatestDate: "2026-08-24"},
		{MemberID: "b", Success: true, LatestDate: "2026-08-25"},
		{MemberID: "c", Success: true, LatestDate: "2026-08-26"},
		{MemberID: "d", Success: true, LatestDate: "2026-08-27"},
		{MemberID: "e", Success: true, LatestDate: "2026-08-24"},
	}, time.Now(), time.Now())

	if len(summary.LatestDates) != 3 {
		t.Fatalf("latest dates = %v, want 3 distinct values at most", summary.LatestDates)
	}
	want := []string{"2026-08-24", "2026-08-25", "2026-08-26"}
	for i := range want {
		if summary.LatestDates[i] != want[i] {
			t.Errorf("latest dates[%d] = %q, want %q", i, summary.LatestDates[i], want[i])
		}
	}
}

func TestSummarizeEmptyRoster(t *testing.T) {
	summary := Summarize(nil, time.Now(), time.Now())
	if summary.Status != RunStatusFull {
		t.Errorf("status = %q, want full for an empty roster", summary.Status)
	}
}

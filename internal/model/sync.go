package model

import "time"

// SyncOutcome is the result of syncing a single member within one batch run.
// It exists only for the duration of the run to build the summary.
type SyncOutcome struct {
	MemberID    string
	Name        string
	Success     bool
	RecordCount int
	LatestDate  string // first parsed row's date; the portal renders newest first
	ErrorKind   string
	ErrorDetail string
}

// RunStatus classifies a whole batch run.
type RunStatus string

const (
	// RunStatusFull means every member synced successfully.
	RunStatusFull RunStatus = "full"
	// RunStatusPartial means at least one member synced and at least one failed.
	RunStatusPartial RunStatus = "partial"
	// RunStatusFailed means no member synced successfully.
	RunStatusFailed RunStatus = "failed"
)

// maxLatestDateSample bounds the freshness sample shown to operators.
const maxLatestDateSample = 3

// SyncSummary is the operator-facing aggregate of one batch run.
// It is never persisted; the last summary is kept in memory for the
// status endpoint.
type SyncSummary struct {
	Status      RunStatus
	Total       int
	Success     int
	Fail        int
	Errors      []string // de-duplicated, in first-seen order
	LatestDates []string // distinct "latest date observed" values, at most 3
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Summarize aggregates per-member outcomes into a SyncSummary.
// Identical error messages are surfaced once, in first-seen order, so five
// expired-session failures read as one line.
func Summarize(outcomes []SyncOutcome, startedAt, finishedAt time.Time) *SyncSummary {
	s := &SyncSummary{
		Total:      len(outcomes),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	seenErr := make(map[string]bool)
	seenDate := make(map[string]bool)

	for _, o := range outcomes {
		if o.Success {
			s.Success++
		} else {
			s.Fail++
			msg := o.ErrorKind
			if o.ErrorDetail != "" {
				msg = o.ErrorKind + ": " + o.ErrorDetail
			}
			if msg != "" && !seenErr[msg] {
				seenErr[msg] = true
				s.Errors = append(s.Errors, msg)
			}
		}
		if o.LatestDate != "" && !seenDate[o.LatestDate] && len(s.LatestDates) < maxLatestDateSample {
			seenDate[o.LatestDate] = true
			s.LatestDates = append(s.LatestDates, o.LatestDate)
		}
	}

	switch {
	case s.Total == 0 || s.Fail == 0:
		s.Status = RunStatusFull
	case s.Success == 0:
		s.Status = RunStatusFailed
	default:
		s.Status = RunStatusPartial
	}

	return s
}

// Package sync implements the batch synchronizer and its scheduler: the
// loop that walks the roster, pulls each member's attendance from the
// portal, and reconciles it into the store.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ardika/attendman/internal/metrics"
	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/portal"
	"github.com/ardika/attendman/internal/repository"
)

// ErrSyncInProgress is returned when a run is requested while another run
// holds the single-flight guard.
var ErrSyncInProgress = errors.New("sync already in progress")

// Fetcher pulls one member's attendance from the portal.
type Fetcher interface {
	Fetch(ctx context.Context, member *model.Member, session *portal.Session) ([]model.AttendanceRecord, error)
}

// Authenticator manages the shared portal session.
type Authenticator interface {
	Authenticate(ctx context.Context) (*portal.Session, error)
	Current() *portal.Session
	Invalidate()
}

// Runner executes batch synchronization runs. Members are processed
// strictly one at a time; the portal is a fragile shared resource and
// concurrent hammering is exactly what gets scrapers blocked.
type Runner struct {
	members    repository.MemberRepository
	attendance repository.AttendanceRepository
	auth       Authenticator
	fetcher    Fetcher
	limiter    *rate.Limiter
	collector  metrics.Collector
	logger     *slog.Logger

	fetchTimeout time.Duration

	running sync.Mutex

	summaryMu   sync.Mutex
	lastSummary *model.SyncSummary
}

// NewRunner builds a Runner. paceInterval spaces consecutive portal
// queries; fetchTimeout bounds each member's fetch so one hung request
// cannot stall the whole run.
func NewRunner(
	members repository.MemberRepository,
	attendance repository.AttendanceRepository,
	auth Authenticator,
	fetcher Fetcher,
	collector metrics.Collector,
	logger *slog.Logger,
	paceInterval time.Duration,
	fetchTimeout time.Duration,
) *Runner {
	return &Runner{
		members:      members,
		attendance:   attendance,
		auth:         auth,
		fetcher:      fetcher,
		limiter:      rate.NewLimiter(rate.Every(paceInterval), 1),
		collector:    collector,
		logger:       logger,
		fetchTimeout: fetchTimeout,
	}
}

// Run executes one batch run over the whole roster and returns its summary.
// At most one run executes at a time; a second caller gets ErrSyncInProgress
// immediately rather than queueing, so a slow run cannot pile up triggers
// behind it.
func (r *Runner) Run(ctx context.Context) (*model.SyncSummary, error) {
	if !r.running.TryLock() {
		r.collector.RecordRunSkipped()
		return nil, ErrSyncInProgress
	}
	defer r.running.Unlock()

	startedAt := time.Now()

	roster, err := r.members.List(ctx)
	if err != nil {
		r.logger.Error("failed to load roster", slog.String("error", err.Error()))
		return nil, err
	}

	r.logger.Info("sync run started", slog.Int("member_count", len(roster)))

	session := r.auth.Current()
	if !session.Valid() {
		session, err = r.auth.Authenticate(ctx)
		if err != nil {
			// Without a session every member would fail identically, so
			// the run is reported as failed without touching the roster.
			summary := r.failAll(roster, err, startedAt)
			return summary, nil
		}
	}

	outcomes := make([]model.SyncOutcome, 0, len(roster))
	reauthed := false

	for _, member := range roster {
		if err := r.limiter.Wait(ctx); err != nil {
			// Context cancelled mid-run; report what we have.
			r.logger.Warn("sync run cancelled", slog.String("error", err.Error()))
			break
		}

		outcome := r.syncMember(ctx, member, session)

		// One re-authentication attempt per run. A single expiry mid-run
		// is routine; a second one means the portal is rejecting us and
		// retrying further would just burn the remaining members.
		if !outcome.Success && outcome.ErrorKind == string(model.ExtractErrorSessionExpired) && !reauthed {
			reauthed = true
			r.auth.Invalidate()
			r.collector.RecordReauth()

			fresh, authErr := r.auth.Authenticate(ctx)
			if authErr != nil {
				r.logger.Error("re-authentication failed",
					slog.String("error", authErr.Error()),
				)
			} else {
				session = fresh
				outcome = r.syncMember(ctx, member, session)
			}
		}

		if outcome.Success {
			r.collector.RecordMemberSynced()
		} else {
			r.collector.RecordMemberFailed(outcome.ErrorKind)
		}

		outcomes = append(outcomes, outcome)
	}

	summary := model.Summarize(outcomes, startedAt, time.Now())
	r.setLastSummary(summary)

	r.logger.Info("sync run finished",
		slog.String("status", string(summary.Status)),
		slog.Int("success", summary.Success),
		slog.Int("fail", summary.Fail),
		slog.Float64("duration_ms", float64(summary.FinishedAt.Sub(summary.StartedAt).Milliseconds())),
	)

	return summary, nil
}

// syncMember fetches and persists one member's records. It never returns an
// error: every failure is folded into the outcome so one bad member cannot
// abort the run.
func (r *Runner) syncMember(ctx context.Context, member *model.Member, session *portal.Session) model.SyncOutcome {
	outcome := model.SyncOutcome{MemberID: member.ID, Name: member.Name}

	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	start := time.Now()
	records, err := r.fetcher.Fetch(fetchCtx, member, session)
	r.collector.RecordExtractLatency(time.Since(start))

	if err != nil {
		outcome.ErrorKind, outcome.ErrorDetail = errorKindDetail(err)
		r.logger.Warn("member sync failed",
			slog.String("member_id", member.ID),
			slog.String("name", member.Name),
			slog.String("kind", outcome.ErrorKind),
			slog.String("error", err.Error()),
		)
		return outcome
	}

	if err := r.attendance.UpsertBatch(ctx, records); err != nil {
		outcome.ErrorKind, outcome.ErrorDetail = errorKindDetail(err)
		r.logger.Error("member sync store write failed",
			slog.String("member_id", member.ID),
			slog.String("error", err.Error()),
		)
		return outcome
	}

	outcome.Success = true
	outcome.RecordCount = len(records)
	if len(records) > 0 {
		outcome.LatestDate = records[0].Date
	}
	r.collector.RecordRecordsUpserted(len(records))

	return outcome
}

// failAll marks every roster member failed with the same cause. Used when
// authentication fails before any member is attempted.
func (r *Runner) failAll(roster []*model.Member, cause error, startedAt time.Time) *model.SyncSummary {
	kind, detail := errorKindDetail(cause)

	outcomes := make([]model.SyncOutcome, 0, len(roster))
	for _, m := range roster {
		outcomes = append(outcomes, model.SyncOutcome{
			MemberID:    m.ID,
			Name:        m.Name,
			ErrorKind:   kind,
			ErrorDetail: detail,
		})
		r.collector.RecordMemberFailed(kind)
	}

	summary := model.Summarize(outcomes, startedAt, time.Now())
	r.setLastSummary(summary)

	r.logger.Error("sync run failed before first member",
		slog.String("kind", kind),
		slog.String("error", cause.Error()),
	)

	return summary
}

// Running reports whether a run currently holds the single-flight guard.
func (r *Runner) Running() bool {
	if r.running.TryLock() {
		r.running.Unlock()
		return false
	}
	return true
}

// LastSummary returns the most recent run's summary, or nil when no run has
// completed since the process started.
func (r *Runner) LastSummary() *model.SyncSummary {
	r.summaryMu.Lock()
	defer r.summaryMu.Unlock()
	return r.lastSummary
}

func (r *Runner) setLastSummary(s *model.SyncSummary) {
	r.summaryMu.Lock()
	r.lastSummary = s
	r.summaryMu.Unlock()
}

// errorKindDetail splits a typed failure into the kind and detail used for
// outcome aggregation. Unknown error types fall through as "Internal".
func errorKindDetail(err error) (string, string) {
	var extractErr *model.ExtractError
	if errors.As(err, &extractErr) {
		return string(extractErr.Kind), extractErr.Detail
	}

	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		return "Auth" + string(authErr.Kind), authErr.Detail
	}

	var storeErr *model.StoreError
	if errors.As(err, &storeErr) {
		return string(storeErr.Kind), storeErr.Detail
	}

	return "Internal", err.Error()
}

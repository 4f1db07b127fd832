// Package cleanup prunes attendance history past the retention horizon.
// Both record families are pruned on the same horizon; the job is a daily
// batch and idempotent.
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor abstracts ExecContext so the job accepts *sql.DB or *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob deletes attendance and manual check-in rows older than the
// retention horizon.
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int
}

// NewCleanupJob creates a CleanupJob with the default 400-day retention,
// a bit over a year so year-on-year comparisons stay possible.
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		RetentionDays: 400,
	}
}

// Run deletes rows whose date is older than RetentionDays. Idempotent: a
// run with nothing to delete succeeds.
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	var total int64
	for _, table := range []string{"attendance_logs", "daily_attendance"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE date < (now() - $1::interval)::date`, table)
		result, err := j.db.ExecContext(ctx, query, interval)
		if err != nil {
			j.logger.Error("attendance cleanup failed",
				slog.String("table", table),
				slog.String("error", err.Error()),
				slog.Int("retention_days", j.RetentionDays),
			)
			return fmt.Errorf("failed to prune %s: %w", table, err)
		}

		deleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read pruned row count: %w", err)
		}
		total += deleted
	}

	j.logger.Info("attendance cleanup finished",
		slog.Int64("deleted_count", total),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}

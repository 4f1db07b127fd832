package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardika/attendman/internal/model"
)

// PostgresCheckInRepo is the PostgreSQL implementation of CheckInRepository.
type PostgresCheckInRepo struct {
	db *sql.DB
}

// NewPostgresCheckInRepo creates a PostgresCheckInRepo.
func NewPostgresCheckInRepo(db *sql.DB) *PostgresCheckInRepo {
	return &PostgresCheckInRepo{db: db}
}

// Upsert writes a manual check-in, replacing any existing row for the same
// (member_id, date).
func (r *PostgresCheckInRepo) Upsert(ctx context.Context, rec *model.ManualCheckIn) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_attendance (member_id, date, check_in_time, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (member_id, date) DO UPDATE SET
		     check_in_time = EXCLUDED.check_in_time,
		     updated_at    = EXCLUDED.updated_at`,
		rec.MemberID, rec.Date, rec.CheckInTime, rec.UpdatedAt,
	)
	if err != nil {
		return &model.StoreError{
			Kind:   model.StoreErrorWriteRejected,
			Detail: fmt.Sprintf("upsert check-in (member=%s date=%s)", rec.MemberID, rec.Date),
			Err:    err,
		}
	}

	return nil
}

// FindByMemberAndDate returns the manual check-in for one member and date,
// or nil when absent.
func (r *PostgresCheckInRepo) FindByMemberAndDate(ctx context.Context, memberID, date string) (*model.ManualCheckIn, error) {
	rec := &model.ManualCheckIn{}
	err := r.db.QueryRowContext(ctx,
		`SELECT member_id, date::text, check_in_time, updated_at
		 FROM daily_attendance WHERE member_id = $1 AND date = $2`,
		memberID, date,
	).Scan(&rec.MemberID, &rec.Date, &rec.CheckInTime, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find check-in: %w", err)
	}

	return rec, nil
}

// ListByDate returns all manual check-ins for one date.
func (r *PostgresCheckInRepo) ListByDate(ctx context.Context, date string) ([]model.ManualCheckIn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT member_id, date::text, check_in_time, updated_at
		 FROM daily_attendance WHERE date = $1`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var records []model.ManualCheckIn
	for rows.Next() {
		var rec model.ManualCheckIn
		if err := rows.Scan(&rec.MemberID, &rec.Date, &rec.CheckInTime, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-ins: %w", err)
	}

	return records, nil
}

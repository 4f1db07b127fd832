package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardika/attendman/internal/model"
)

// PostgresAttendanceRepo is the PostgreSQL implementation of
// AttendanceRepository.
type PostgresAttendanceRepo struct {
	db *sql.DB
}

// NewPostgresAttendanceRepo creates a PostgresAttendanceRepo.
func NewPostgresAttendanceRepo(db *sql.DB) *PostgresAttendanceRepo {
	return &PostgresAttendanceRepo{db: db}
}

// UpsertBatch writes one member's scraped records in a single transaction.
// ON CONFLICT on the (member_id, date) natural key replaces the row, so
// re-ingestion is idempotent: the second write's field values win and the
// pair is never duplicated. The batch is all-or-nothing; any failure rolls
// back and surfaces as StoreError{WriteRejected}.
func (r *PostgresAttendanceRepo) UpsertBatch(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.StoreError{Kind: model.StoreErrorWriteRejected, Detail: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attendance_logs
		     (member_id, date, status_code, check_in, check_out, job, flagged, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (member_id, date) DO UPDATE SET
		     status_code = EXCLUDED.status_code,
		     check_in    = EXCLUDED.check_in,
		     check_out   = EXCLUDED.check_out,
		     job         = EXCLUDED.job,
		     flagged     = EXCLUDED.flagged,
		     updated_at  = EXCLUDED.updated_at`,
	)
	if err != nil {
		return &model.StoreError{Kind: model.StoreErrorWriteRejected, Detail: "prepare upsert", Err: err}
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.MemberID, rec.Date, string(rec.StatusCode),
			rec.CheckIn, rec.CheckOut, rec.Job, rec.Flagged, rec.UpdatedAt,
		); err != nil {
			return &model.StoreError{
				Kind:   model.StoreErrorWriteRejected,
				Detail: fmt.Sprintf("upsert (member=%s date=%s)", rec.MemberID, rec.Date),
				Err:    err,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &model.StoreError{Kind: model.StoreErrorWriteRejected, Detail: "commit", Err: err}
	}

	return nil
}

// ListByMember returns a member's records within [from, to], newest first.
func (r *PostgresAttendanceRepo) ListByMember(ctx context.Context, memberID, from, to string) ([]model.AttendanceRecord, error) {
	query := `SELECT member_id, date::text, status_code, check_in, check_out, job, flagged, updated_at
	          FROM attendance_logs WHERE member_id = $1`
	args := []interface{}{memberID}

	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRows(rows)
}

// ListByDate returns every member's record for one date.
func (r *PostgresAttendanceRepo) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT member_id, date::text, status_code, check_in, check_out, job, flagged, updated_at
		 FROM attendance_logs WHERE date = $1`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	defer rows.Close()

	return scanAttendanceRows(rows)
}

func scanAttendanceRows(rows *sql.Rows) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		var status string
		if err := rows.Scan(&rec.MemberID, &rec.Date, &status,
			&rec.CheckIn, &rec.CheckOut, &rec.Job, &rec.Flagged, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.StatusCode = model.StatusCode(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// Package repository defines persistence interfaces and their PostgreSQL
// implementations. The two record families — scraped status records and
// manually entered check-in times — live in independent tables sharing the
// (member_id, date) key discipline and are reconciled only at read time.
package repository

import (
	"context"

	"github.com/ardika/attendman/internal/model"
)

// MemberRepository persists the roster.
type MemberRepository interface {
	// List returns all members ordered by NRP.
	List(ctx context.Context) ([]*model.Member, error)

	// FindByID returns the member with the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.Member, error)

	// Create inserts a member.
	Create(ctx context.Context, m *model.Member) error

	// Update rewrites a member's name and NRP.
	Update(ctx context.Context, m *model.Member) error

	// Delete removes a member. Attendance and check-in rows cascade.
	Delete(ctx context.Context, id string) error
}

// AttendanceRepository persists scraped attendance records.
type AttendanceRepository interface {
	// UpsertBatch writes one member's records in a single transaction with
	// replace-on-conflict semantics on (member_id, date). The batch either
	// persists completely or fails as a whole; failures surface as
	// StoreError{WriteRejected} and are never retried here.
	UpsertBatch(ctx context.Context, records []model.AttendanceRecord) error

	// ListByMember returns a member's records within [from, to], newest
	// first. Empty bounds mean unbounded.
	ListByMember(ctx context.Context, memberID, from, to string) ([]model.AttendanceRecord, error)

	// ListByDate returns every member's record for one date.
	ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error)
}

// CheckInRepository persists manually entered check-in times.
type CheckInRepository interface {
	// Upsert writes a manual check-in with replace-on-conflict semantics
	// on (member_id, date).
	Upsert(ctx context.Context, rec *model.ManualCheckIn) error

	// FindByMemberAndDate returns the check-in for one member and date, or
	// nil when absent.
	FindByMemberAndDate(ctx context.Context, memberID, date string) (*model.ManualCheckIn, error)

	// ListByDate returns all manual check-ins for one date.
	ListByDate(ctx context.Context, date string) ([]model.ManualCheckIn, error)
}

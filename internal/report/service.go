package report

import (
	"context"
	"fmt"

	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/repository"
)

// Overrides are per-request bucket reassignments. They touch only the
// in-memory group; nothing is written back.
type Overrides struct {
	ToShift2 []string // member ids moved shift1 -> shift2
	ToShift1 []string // member ids moved shift2 -> shift1
}

// BoardRow is one line of the public display board: the member's name with
// the scraped status and the reconciled manual check-in side by side.
type BoardRow struct {
	MemberID    string `json:"member_id"`
	Name        string `json:"name"`
	StatusCode  string `json:"status_code"`
	CheckInTime string `json:"check_in_time,omitempty"`
	Flagged     bool   `json:"flagged"`
}

// Service assembles roster reports by reconciling the two record families
// at read time.
type Service struct {
	members    repository.MemberRepository
	attendance repository.AttendanceRepository
	checkins   repository.CheckInRepository
}

// NewService builds a report Service.
func NewService(members repository.MemberRepository, attendance repository.AttendanceRepository, checkins repository.CheckInRepository) *Service {
	return &Service{members: members, attendance: attendance, checkins: checkins}
}

// DailyRoster classifies the whole roster for one date and applies the
// given bucket overrides, returning the grouped view and the composed text.
func (s *Service) DailyRoster(ctx context.Context, date string, overrides Overrides) (*model.RosterGroup, string, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load roster: %w", err)
	}

	records, err := s.attendance.ListByDate(ctx, date)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance: %w", err)
	}

	checkins, err := s.checkins.ListByDate(ctx, date)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load check-ins: %w", err)
	}

	statusByMember := make(map[string]model.StatusCode, len(records))
	for _, rec := range records {
		statusByMember[rec.MemberID] = rec.StatusCode
	}

	checkInByMember := make(map[string]string, len(checkins))
	for _, ci := range checkins {
		checkInByMember[ci.MemberID] = ci.CheckInTime
	}

	group := Classify(date, members, statusByMember, checkInByMember)

	for _, id := range overrides.ToShift2 {
		group.MoveToShift2(id)
	}
	for _, id := range overrides.ToShift1 {
		group.MoveToShift1(id)
	}

	return group, Compose(group), nil
}

// Board returns the display-board rows for one date: every member, the
// scraped status and the manual check-in reconciled per (member, date).
func (s *Service) Board(ctx context.Context, date string) ([]BoardRow, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	records, err := s.attendance.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	checkins, err := s.checkins.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	recordByMember := make(map[string]model.AttendanceRecord, len(records))
	for _, rec := range records {
		recordByMember[rec.MemberID] = rec
	}

	checkInByMember := make(map[string]string, len(checkins))
	for _, ci := range checkins {
		checkInByMember[ci.MemberID] = ci.CheckInTime
	}

	rows := make([]BoardRow, 0, len(members))
	for _, m := range members {
		row := BoardRow{
			MemberID: m.ID,
			Name:     titleCase(m.Name),
		}
		if rec, ok := recordByMember[m.ID]; ok {
			row.StatusCode = string(rec.StatusCode)
			row.Flagged = rec.Flagged
		}
		row.CheckInTime = checkInByMember[m.ID]
		rows = append(rows, row)
	}

	return rows, nil
}

package report

import (
	"context"
	"strings"
	"testing"

	"github.com/ardika/attendman/internal/model"
)

type stubMemberRepo struct{ members []*model.Member }

func (s *stubMemberRepo) List(ctx context.Context) ([]*model.Member, error) { return s.members, nil }
func (s *stubMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	return nil, nil
}
func (s *stubMemberRepo) Create(ctx context.Context, m *model.Member) error { return nil }
func (s *stubMemberRepo) Update(ctx context.Context, m *model.Member) error { return nil }
func (s *stubMemberRepo) Delete(ctx context.Context, id string) error       { return nil }

type stubAttendanceRepo struct{ records []model.AttendanceRecord }

func (s *stubAttendanceRepo) UpsertBatch(ctx context.Context, records []model.AttendanceRecord) error {
	return nil
}
func (s *stubAttendanceRepo) ListByMember(ctx context.Context, memberID, from, to string) ([]model.AttendanceRecord, error) {
	return nil, nil
}
func (s *stubAttendanceRepo) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return s.records, nil
}

type stubCheckInRepo struct{ records []model.ManualCheckIn }

func (s *stubCheckInRepo) Upsert(ctx context.Context, rec *model.ManualCheckIn) error { return nil }
func (s *stubCheckInRepo) FindByMemberAndDate(ctx context.Context, memberID, date string) (*model.ManualCheckIn, error) {
	return nil, nil
}
func (s *stubCheckInRepo) ListByDate(ctx context.Context, date string) ([]model.ManualCheckIn, error) {
	return s.records, nil
}

func newTestService() *Service {
	return NewService(
		&stubMemberRepo{members: []*model.Member{
			{ID: "a", Name: "BUDI SANTOSO"},
			{ID: "b", Name: "CITRA LESTARI"},
		}},
		&stubAttendanceRepo{records: []model.AttendanceRecord{
			{MemberID: "a", Date: "2026-08-27", StatusCode: model.StatusDayRegular, Flagged: true},
			{MemberID: "b", Date: "2026-08-27", StatusCode: model.StatusNightRegular},
		}},
		&stubCheckInRepo{records: []model.ManualCheckIn{
			{MemberID: "a", Date: "2026-08-27", CheckInTime: "06:38"},
		}},
	)
}

func TestDailyRoster(t *testing.T) {
	svc := newTestService()

	group, text, err := svc.DailyRoster(context.Background(), "2026-08-27", Overrides{})
	if err != nil {
		t.Fatalf("DailyRoster returned error: %v", err)
	}

	if len(group.Shift1) != 1 || len(group.Shift2) != 1 {
		t.Fatalf("buckets = %+v", group)
	}
	if group.Shift1[0].DisplayName != "Budi Santoso (Hadir 06.38)" {
		t.Errorf("shift1 display = %q", group.Shift1[0].DisplayName)
	}
	if !strings.Contains(text, "1. Budi Santoso (Hadir 06.38)") {
		t.Errorf("composed text missing shift1 entry:\n%s", text)
	}
}

func TestDailyRosterOverrides(t *testing.T) {
	svc := newTestService()

	group, _, err := svc.DailyRoster(context.Background(), "2026-08-27", Overrides{
		ToShift2: []string{"a"},
	})
	if err != nil {
		t.Fatalf("DailyRoster returned error: %v", err)
	}

	if len(group.Shift1) != 0 {
		t.Errorf("shift1 = %+v, want empty after override", group.Shift1)
	}
	if len(group.Shift2) != 2 {
		t.Errorf("shift2 = %+v, want both members", group.Shift2)
	}
}

func TestBoardReconcilesBothFamilies(t *testing.T) {
	svc := newTestService()

	rows, err := svc.Board(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("Board returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}

	if rows[0].StatusCode != "DR" || rows[0].CheckInTime != "06:38" || !rows[0].Flagged {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].StatusCode != "NR" || rows[1].CheckInTime != "" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

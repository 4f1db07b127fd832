// Package model defines the domain model.
package model

import "time"

// Member is one person on the roster. NRP is the portal-facing identifier
// used to query attendance and is unique across members.
type Member struct {
	ID        string
	Name      string
	NRP       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusCode is the two-letter attendance category reported by the portal
// for a member on a given date.
type StatusCode string

const (
	// StatusDayRegular is the regular day shift.
	StatusDayRegular StatusCode = "DR"
	// StatusDayLeave is a day-shift leave variant.
	StatusDayLeave StatusCode = "DL"
	// StatusDayExtra is an extra day shift.
	StatusDayExtra StatusCode = "DE"
	// StatusNightRegular is the regular night shift.
	StatusNightRegular StatusCode = "NR"
	// StatusNightLeave is a night-shift leave variant.
	StatusNightLeave StatusCode = "NL"
	// StatusNightExtra is an extra night shift.
	StatusNightExtra StatusCode = "NE"
	// StatusLeaveRoster is leave-on-roster (cuti).
	StatusLeaveRoster StatusCode = "CR"
	// StatusOff is an off day.
	StatusOff StatusCode = "OL"
	// StatusOffRoster is off-on-roster.
	StatusOffRoster StatusCode = "OR"
	// StatusAbsent is an unexcused absence.
	StatusAbsent StatusCode = "AL"
	// StatusUnknown is the fallback when no record exists for a date.
	StatusUnknown StatusCode = ""
)

// AttendanceRecord is one scraped attendance fact, keyed by (member_id, date).
// Re-ingestion replaces the row; the pair is never duplicated.
type AttendanceRecord struct {
	MemberID   string
	Date       string // normalized YYYY-MM-DD
	StatusCode StatusCode
	CheckIn    string // time-of-day text as rendered by the portal, may be empty
	CheckOut   string
	Job        string
	Flagged    bool // auxiliary indicator column carried the flag marker
	UpdatedAt  time.Time
}

// ManualCheckIn is a human-entered check-in time, independent of the scraped
// record for the same (member_id, date). Written only through the API.
type ManualCheckIn struct {
	MemberID    string
	Date        string // YYYY-MM-DD
	CheckInTime string // HH:MM or HH:MM:SS
	UpdatedAt   time.Time
}

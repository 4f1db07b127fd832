package model

// RosterEntry is one member as placed in a roster bucket.
type RosterEntry struct {
	MemberID    string
	DisplayName string
	StatusCode  StatusCode
}

// RosterGroup is the classification result for one date: every member in
// exactly one bucket. It is rebuilt fresh on every report request and is
// never stored; bucket reassignments live only in this in-memory value.
type RosterGroup struct {
	Date   string
	Shift1 []RosterEntry
	Shift2 []RosterEntry
	Leave  []RosterEntry
	Absent []RosterEntry
}

// MoveToShift2 moves a member from shift1 to shift2. No-op when the member
// is not in shift1. Returns true when a move happened.
func (g *RosterGroup) MoveToShift2(memberID string) bool {
	for i, e := range g.Shift1 {
		if e.MemberID == memberID {
			g.Shift1 = append(g.Shift1[:i], g.Shift1[i+1:]...)
			g.Shift2 = append(g.Shift2, e)
			return true
		}
	}
	return false
}

// MoveToShift1 moves a member from shift2 to shift1. No-op when the member
// is not in shift2. Returns true when a move happened.
func (g *RosterGroup) MoveToShift1(memberID string) bool {
	for i, e := range g.Shift2 {
		if e.MemberID == memberID {
			g.Shift2 = append(g.Shift2[:i], g.Shift2[i+1:]...)
			g.Shift1 = append(g.Shift1, e)
			return true
		}
	}
	return false
}

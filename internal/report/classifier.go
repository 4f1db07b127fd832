// Package report classifies the daily roster into shift buckets and renders
// the copy-paste text report.
package report

import (
	"strings"

	"github.com/ardika/attendman/internal/model"
)

// shift1Codes and shift2Codes are the day and night shift status families.
// CR is roster leave; every other code, including unknown and missing,
// lands in the absent bucket.
var (
	shift1Codes = map[model.StatusCode]bool{
		model.StatusDayRegular: true,
		model.StatusDayLeave:   true,
		model.StatusDayExtra:   true,
	}
	shift2Codes = map[model.StatusCode]bool{
		model.StatusNightRegular: true,
		model.StatusNightLeave:   true,
		model.StatusNightExtra:   true,
	}
)

// Classify places every member into exactly one bucket for the given date.
// statusByMember maps member id to that date's status code; members without
// an entry get the empty fallback code and classify as absent.
// checkInByMember maps member id to a manual check-in time; the check-in
// annotation is shown only for day-shift codes — a night-shift member's
// morning check-in belongs to the previous duty and would mislead.
// Classification is deterministic: same inputs, same buckets, member order
// preserved within each bucket.
func Classify(date string, members []*model.Member, statusByMember map[string]model.StatusCode, checkInByMember map[string]string) *model.RosterGroup {
	group := &model.RosterGroup{Date: date}

	for _, m := range members {
		code := statusByMember[m.ID]

		entry := model.RosterEntry{
			MemberID:    m.ID,
			DisplayName: titleCase(m.Name),
			StatusCode:  code,
		}

		switch {
		case shift1Codes[code]:
			if t, ok := checkInByMember[m.ID]; ok && t != "" {
				entry.DisplayName += " (Hadir " + formatCheckIn(t) + ")"
			}
			group.Shift1 = append(group.Shift1, entry)
		case shift2Codes[code]:
			group.Shift2 = append(group.Shift2, entry)
		case code == model.StatusLeaveRoster:
			group.Leave = append(group.Leave, entry)
		default:
			group.Absent = append(group.Absent, entry)
		}
	}

	return group
}

// titleCase renders a stored name (any casing) as Title Case for display.
func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}

// formatCheckIn turns a stored "HH:MM" or "HH:MM:SS" into the report's
// "HH.MM" form.
func formatCheckIn(t string) string {
	parts := strings.Split(t, ":")
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return strings.ReplaceAll(t, ":", ".")
}

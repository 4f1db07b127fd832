package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardika/attendman/internal/model"
)

// Report text fragments. The template is fixed: the output is pasted into a
// group chat verbatim, so wording and markup must not drift.
const (
	reportHeader = "*📍UPDATE KEHADIRAN SHENERGY*"
	reportGroup  = "*Kelompok 4 (Diazepam Group)*"
	reportFooter = "Terimakasih 🙏🏻"

	emptyBucketPlaceholder = "-"
)

var indonesianDays = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Compose renders the roster group as the WhatsApp-style text report.
// The same group always renders the same text.
func Compose(group *model.RosterGroup) string {
	var b strings.Builder

	b.WriteString(reportHeader + "\n")
	b.WriteString(formatLongDate(group.Date) + "\n")
	b.WriteString(reportGroup + "\n\n")

	writeBucket(&b, "_*Shift 1*_", group.Shift1)
	writeBucket(&b, "_*Shift 2*_", group.Shift2)
	writeBucket(&b, "_*Cuti*_", group.Leave)
	writeBucket(&b, "_*Tidak Hadir*_", group.Absent)

	b.WriteString(reportFooter)

	return b.String()
}

func writeBucket(b *strings.Builder, label string, entries []model.RosterEntry) {
	b.WriteString(label + "\n")
	if len(entries) == 0 {
		b.WriteString(emptyBucketPlaceholder + "\n")
	} else {
		for i, e := range entries {
			fmt.Fprintf(b, "%d. %s\n", i+1, e.DisplayName)
		}
	}
	b.WriteString("\n")
}

// formatLongDate renders YYYY-MM-DD as the Indonesian long form, e.g.
// "Kamis, 28 Agustus 2026". An unparseable date falls back to the raw value
// rather than breaking the report.
func formatLongDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %d %s %d",
		indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

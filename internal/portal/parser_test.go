package portal

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardika/attendman/internal/model"
)

func attendancePage(rows string) string {
	return `<html><head><title>My Attendance</title></head><body>
<table class="table table-bordered tbl-abs"><thead>
<tr><th>Date</th><th>Status</th><th>In</th><th>Out</th><th>Job</th><th>Saya Peduli</th></tr>
</thead><tbody>` + rows + `</tbody></table></body></html>`
}

func TestParseAttendancePage(t *testing.T) {
	html := attendancePage(`
<tr><td>2026-08-27</td><td>DR</td><td>06:45</td><td>18:10</td><td>Hauling</td><td><i class="fa fa-check"></i></td></tr>
<tr><td>26/08/2026</td><td>NR</td><td>18:40</td><td>06:05</td><td>Loading</td><td><i class="fa fa-times"></i></td></tr>`)

	rows, err := ParseAttendancePage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseAttendancePage returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Date != "2026-08-27" {
		t.Errorf("row 0 date = %q, want 2026-08-27", rows[0].Date)
	}
	if rows[0].StatusCode != model.StatusDayRegular {
		t.Errorf("row 0 status = %q, want DR", rows[0].StatusCode)
	}
	if rows[0].CheckIn != "06:45" || rows[0].CheckOut != "18:10" {
		t.Errorf("row 0 times = %q/%q", rows[0].CheckIn, rows[0].CheckOut)
	}
	if rows[0].Flagged {
		t.Error("row 0 should not be flagged")
	}

	if rows[1].Date != "2026-08-26" {
		t.Errorf("row 1 date = %q, want 2026-08-26 (normalized from DD/MM/YYYY)", rows[1].Date)
	}
	if !rows[1].Flagged {
		t.Error("row 1 should be flagged (fa-times in auxiliary cell)")
	}
	if rows[1].Job != "Loading" {
		t.Errorf("row 1 job = %q, want Loading", rows[1].Job)
	}
}

func TestParseAttendancePageSkipsShortRows(t *testing.T) {
	html := attendancePage(`
<tr><td colspan="6">no data</td></tr>
<tr><td>2026-08-27</td><td>DR</td><td>06:45</td><td>18:10</td><td>Hauling</td><td></td></tr>`)

	rows, err := ParseAttendancePage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseAttendancePage returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected short row skipped, got %d rows", len(rows))
	}
}

func TestParseAttendancePageSkipsBadDates(t *testing.T) {
	html := attendancePage(`
<tr><td>not a date</td><td>DR</td><td>06:45</td><td>18:10</td><td>Hauling</td><td></td></tr>
<tr><td>2026-08-27</td><td>DR</td><td>06:45</td><td>18:10</td><td>Hauling</td><td></td></tr>`)

	rows, err := ParseAttendancePage(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseAttendancePage returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected bad-date row skipped, got %d rows", len(rows))
	}
}

func TestParseAttendancePageSessionExpired(t *testing.T) {
	html := `<html><head><title>PPA</title></head><body>
<form action="/index.php/login/validasi"><h1>Silakan Login</h1></form></body></html>`

	_, err := ParseAttendancePage(strings.NewReader(html))

	var extractErr *model.ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractError, got %v", err)
	}
	if extractErr.Kind != model.ExtractErrorSessionExpired {
		t.Errorf("kind = %q, want SessionExpired", extractErr.Kind)
	}
}

func TestParseAttendancePageUnexpectedLayout(t *testing.T) {
	html := `<html><head><title>Maintenance</title></head><body><p>Be right back</p></body></html>`

	_, err := ParseAttendancePage(strings.NewReader(html))

	var extractErr *model.ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractError, got %v", err)
	}
	if extractErr.Kind != model.ExtractErrorUnexpectedLayout {
		t.Errorf("kind = %q, want UnexpectedLayout", extractErr.Kind)
	}
	if extractErr.Detail != "Maintenance" {
		t.Errorf("detail = %q, want page title", extractErr.Detail)
	}
}

func TestParseAttendancePageNoRecordsParsed(t *testing.T) {
	// Table present, rows present, but none survives validation.
	html := attendancePage(`
<tr><td>garbage</td><td>DR</td><td>06:45</td><td>18:10</td><td>Hauling</td><td></td></tr>`)

	_, err := ParseAttendancePage(strings.NewReader(html))

	var extractErr *model.ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractError, got %v", err)
	}
	if extractErr.Kind != model.ExtractErrorNoRecordsParsed {
		t.Errorf("kind = %q, want NoRecordsParsed", extractErr.Kind)
	}
	if !strings.Contains(extractErr.Detail, "garbage") {
		t.Errorf("detail should carry a first-row sample, got %q", extractErr.Detail)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"iso", "2026-08-27", "2026-08-27", true},
		{"iso unpadded", "2026-8-7", "2026-08-07", true},
		{"day first dash", "27-08-2026", "2026-08-27", true},
		{"day first slash", "27/08/2026", "2026-08-27", true},
		{"day first unpadded", "7/8/2026", "2026-08-07", true},
		{"spaces", " 2026-08-27 ", "2026-08-27", true},
		{"no separator", "20260827", "", false},
		{"two parts", "08/2026", "", false},
		{"four parts", "1/2/3/2026", "", false},
		{"year both sides", "2026-08-2027", "", false},
		{"year neither side", "27-08-26", "", false},
		{"non numeric month", "27-xx-2026", "", false},
		{"impossible date", "32/01/2026", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			if ok != tt.valid {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.raw, ok, tt.valid)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// Package portal talks to the remote attendance portal: login-form
// authentication, per-member attendance queries, and defensive parsing of
// the server-rendered markup. The portal has no API and no versioning, so
// the parser degrades row by row and classifies whole-page failures into an
// explicit, enumerated taxonomy instead of letting a generic parse error
// bubble up.
package portal

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ardika/attendman/internal/model"
)

const (
	// attendanceRowSelector is the structural marker of the data table.
	// The portal renders it as <table class="table table-bordered
	// table-striped tbl-abs">; the tbl-abs class has been stable across
	// the layout changes observed so far.
	attendanceRowSelector = ".tbl-abs tbody tr"

	// flagMarker is the icon class the auxiliary column carries when the
	// row is flagged.
	flagMarker = "fa-times"

	// minRowCells is the column count of a data row. Header and filler
	// rows come through with fewer cells and are skipped.
	minRowCells = 6

	// sampleLimit bounds the first-row diagnostic sample in error details.
	sampleLimit = 120
)

// loginIndicators are phrases whose presence in the body text identifies
// the portal's login page. Checked case-insensitively when the data table
// is absent: a served login page means the session expired.
var loginIndicators = []string{"login", "sign in", "masuk"}

// ParsedRow is one attendance row lifted from the markup, not yet bound to
// a member.
type ParsedRow struct {
	Date       string // normalized YYYY-MM-DD
	StatusCode model.StatusCode
	CheckIn    string
	CheckOut   string
	Job        string
	Flagged    bool
}

// ParseAttendancePage parses a monitoring response document into attendance
// rows. Row-level validation failures (short rows, unparseable dates) are
// absorbed by skipping the row; page-level failures return an ExtractError:
//
//   - SessionExpired: no data table, body text looks like the login page
//   - UnexpectedLayout: no data table and not a login page
//   - NoRecordsParsed: table present and non-empty, yet no row survived
//
// NoRecordsParsed is deliberately distinct from an empty table: it is the
// strongest signal that the markup shape changed under us.
func ParseAttendancePage(r io.Reader) ([]ParsedRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &model.ExtractError{
			Kind:   model.ExtractErrorUnexpectedLayout,
			Detail: "unreadable document",
			Err:    err,
		}
	}

	rows := doc.Find(attendanceRowSelector)
	if rows.Length() == 0 {
		bodyText := strings.ToLower(doc.Find("body").Text())
		for _, phrase := range loginIndicators {
			if strings.Contains(bodyText, phrase) {
				return nil, &model.ExtractError{
					Kind:   model.ExtractErrorSessionExpired,
					Detail: "login page served instead of attendance table",
				}
			}
		}
		title := strings.TrimSpace(doc.Find("title").Text())
		return nil, &model.ExtractError{
			Kind:   model.ExtractErrorUnexpectedLayout,
			Detail: title,
		}
	}

	var parsed []ParsedRow
	var firstRowSample string

	rows.Each(func(i int, row *goquery.Selection) {
		rowText := collapseSpace(row.Text())
		if i == 0 {
			firstRowSample = rowText
		}

		cells := row.Find("td")
		if cells.Length() < minRowCells {
			return
		}

		rawDate := cellText(cells, 0)
		date, ok := NormalizeDate(rawDate)
		if !ok {
			slog.Warn("skipping attendance row with unparseable date",
				slog.String("raw_date", rawDate),
			)
			return
		}

		// The auxiliary cell holds an icon, not text; the flag lives in
		// its inner HTML.
		flagHTML, _ := cells.Eq(5).Html()

		parsed = append(parsed, ParsedRow{
			Date:       date,
			StatusCode: model.StatusCode(cellText(cells, 1)),
			CheckIn:    cellText(cells, 2),
			CheckOut:   cellText(cells, 3),
			Job:        cellText(cells, 4),
			Flagged:    strings.Contains(flagHTML, flagMarker),
		})
	})

	if len(parsed) == 0 {
		return nil, &model.ExtractError{
			Kind:   model.ExtractErrorNoRecordsParsed,
			Detail: fmt.Sprintf("rows=%d sample=[%s]", rows.Length(), truncate(firstRowSample, sampleLimit)),
		}
	}

	return parsed, nil
}

// NormalizeDate converts a portal date cell to YYYY-MM-DD. The same endpoint
// has rendered both YYYY-MM-DD and DD/MM/YYYY across portal versions with no
// documented switch, so the layout is detected per value: three parts split
// on "-" or "/", with the year side identified by the four-digit part.
// Values where neither or both outer parts look like a year are rejected
// rather than guessed.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	var sep string
	switch {
	case strings.Contains(raw, "-"):
		sep = "-"
	case strings.Contains(raw, "/"):
		sep = "/"
	default:
		return "", false
	}

	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return "", false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	yearFirst := len(parts[0]) == 4
	yearLast := len(parts[2]) == 4
	if yearFirst == yearLast {
		return "", false
	}

	var y, m, d string
	if yearFirst {
		y, m, d = parts[0], parts[1], parts[2]
	} else {
		y, m, d = parts[2], parts[1], parts[0]
	}

	month, err := strconv.Atoi(m)
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(d)
	if err != nil {
		return "", false
	}

	normalized := fmt.Sprintf("%s-%02d-%02d", y, month, day)
	if _, err := time.Parse("2006-01-02", normalized); err != nil {
		return "", false
	}

	return normalized, true
}

// cellText returns the trimmed text of the i-th cell.
func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}

// collapseSpace flattens runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes for diagnostic output.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

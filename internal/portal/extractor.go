package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ardika/attendman/internal/model"
	"github.com/ardika/attendman/internal/security"
)

const monitoringPath = "/index.php/monitoring/my_attendance"

// Extractor issues per-member attendance queries and turns the returned
// markup into canonical records. It never writes; persistence belongs to
// the caller.
type Extractor struct {
	httpClient  *http.Client
	sanitizer   security.ScrapedTextSanitizer
	logger      *slog.Logger
	baseURL     string
	maxBodySize int64
}

// NewExtractor builds an Extractor. maxBodySize bounds how much of a
// response is read; the attendance page is small, anything huge is not the
// page we want.
func NewExtractor(httpClient *http.Client, sanitizer security.ScrapedTextSanitizer, logger *slog.Logger, baseURL string, maxBodySize int64) *Extractor {
	return &Extractor{
		httpClient:  httpClient,
		sanitizer:   sanitizer,
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxBodySize: maxBodySize,
	}
}

// Fetch queries the portal for one member and returns the parsed records,
// newest first as the portal renders them. The session is passed explicitly;
// a nil or empty session fails fast as SessionExpired without touching the
// network. Page-level parse failures propagate as ExtractError per
// ParseAttendancePage; transport failures surface as ExtractError{Network}.
func (e *Extractor) Fetch(ctx context.Context, member *model.Member, session *Session) ([]model.AttendanceRecord, error) {
	if !session.Valid() {
		return nil, &model.ExtractError{
			Kind:   model.ExtractErrorSessionExpired,
			Detail: "no live session",
		}
	}

	start := time.Now()

	form := url.Values{}
	form.Set("p_nrp", member.NRP)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+monitoringPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &model.ExtractError{Kind: model.ExtractErrorNetwork, Detail: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", session.Cookie)
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Error("attendance query failed",
			slog.String("member_id", member.ID),
			slog.String("nrp", member.NRP),
			slog.String("error", err.Error()),
		)
		return nil, &model.ExtractError{Kind: model.ExtractErrorNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.ExtractError{
			Kind:   model.ExtractErrorNetwork,
			Detail: fmt.Sprintf("http status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodySize))
	if err != nil {
		return nil, &model.ExtractError{Kind: model.ExtractErrorNetwork, Detail: "reading response", Err: err}
	}

	rows, err := ParseAttendancePage(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	records := make([]model.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.AttendanceRecord{
			MemberID:   member.ID,
			Date:       row.Date,
			StatusCode: row.StatusCode,
			CheckIn:    row.CheckIn,
			CheckOut:   row.CheckOut,
			Job:        e.sanitizer.Sanitize(row.Job),
			Flagged:    row.Flagged,
			UpdatedAt:  now,
		})
	}

	e.logger.Info("attendance extracted",
		slog.String("member_id", member.ID),
		slog.String("nrp", member.NRP),
		slog.Int("record_count", len(records)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return records, nil
}

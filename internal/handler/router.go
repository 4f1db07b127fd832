package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ardika/attendman/internal/middleware"
	"github.com/ardika/attendman/internal/report"
	"github.com/ardika/attendman/internal/repository"
)

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	Logger            *slog.Logger
	DB                *sql.DB
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	Members    repository.MemberRepository
	Attendance repository.AttendanceRepository
	CheckIns   repository.CheckInRepository

	Runner        SyncRunner
	ReportService *report.Service
	Location      *time.Location

	MetricsHandler http.Handler
}

// NewRouter wires all API routes with the middleware chain
//
//	CORS → recovery → logging → rate limit
//
// /health and /metrics sit outside the rate limit so probes and scrapers
// never get throttled.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	memberHandler := NewMemberHandler(deps.Members, deps.Attendance)
	syncHandler := NewSyncHandler(deps.Runner)
	checkInHandler := NewCheckInHandler(deps.Members, deps.CheckIns)
	reportHandler := NewReportHandler(deps.ReportService, deps.Location)
	boardHandler := NewBoardHandler(deps.ReportService, deps.Location)

	r.Get("/health", healthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/members", func(r chi.Router) {
			r.Get("/", memberHandler.List)
			r.Post("/", memberHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", memberHandler.Update)
				r.Delete("/", memberHandler.Delete)
				r.Get("/attendance", memberHandler.ListAttendance)
			})
		})

		r.Route("/api/sync", func(r chi.Router) {
			// The manual trigger gets its own, much tighter limit.
			r.With(deps.RateLimiter.SyncTriggerMiddleware()).Post("/", syncHandler.Trigger)
			r.Get("/status", syncHandler.Status)
		})

		r.Route("/api/checkins", func(r chi.Router) {
			r.Put("/", checkInHandler.Upsert)
			r.Get("/", checkInHandler.ListByDate)
		})

		r.Route("/api/reports/daily", func(r chi.Router) {
			r.Get("/", reportHandler.Daily)
			r.Post("/", reportHandler.DailyWithOverrides)
		})

		r.Get("/api/board", boardHandler.Board)
	})

	return r
}

// healthHandler answers 200 when the database responds to a ping.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  "database unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

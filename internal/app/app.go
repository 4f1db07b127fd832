// Package app wires the application together and dispatches the launch
// modes: API server, sync worker, migrations, healthcheck.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/ardika/attendman/internal/config"
	"github.com/ardika/attendman/internal/database"
	"github.com/ardika/attendman/internal/handler"
	"github.com/ardika/attendman/internal/logger"
	"github.com/ardika/attendman/internal/metrics"
	"github.com/ardika/attendman/internal/middleware"
	"github.com/ardika/attendman/internal/portal"
	"github.com/ardika/attendman/internal/report"
	"github.com/ardika/attendman/internal/repository"
	"github.com/ardika/attendman/internal/security"
	syncer "github.com/ardika/attendman/internal/sync"
	"github.com/ardika/attendman/internal/worker/cleanup"
)

// Init sets up logging and loads the configuration. Logging comes first so
// config failures are already structured.
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run is the application entry point. args is os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck skips full initialization; it only needs the port.
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe starts the API server with graceful shutdown on SIGINT/SIGTERM.
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	guard := security.NewOutboundGuard()
	if err := guard.ValidatePortalURL(cfg.PortalBaseURL); err != nil {
		return fmt.Errorf("portal URL rejected: %w", err)
	}

	location, err := time.LoadLocation(cfg.SyncTimezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	memberRepo := repository.NewPostgresMemberRepo(db)
	attendanceRepo := repository.NewPostgresAttendanceRepo(db)
	checkInRepo := repository.NewPostgresCheckInRepo(db)

	registry := prometheus.NewRegistry()
	collector := metrics.NewPromCollector(registry)

	runner := newRunner(cfg, guard, memberRepo, attendanceRepo, collector)
	reportService := report.NewService(memberRepo, attendanceRepo, checkInRepo)

	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		DB:                db,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		Members:    memberRepo,
		Attendance: attendanceRepo,
		CheckIns:   checkInRepo,

		Runner:        runner,
		ReportService: reportService,
		Location:      location,

		MetricsHandler: metrics.Handler(registry),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // a manual sync run answers synchronously
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker starts the sync scheduler and the daily cleanup job.
func runWorker(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	guard := security.NewOutboundGuard()
	if err := guard.ValidatePortalURL(cfg.PortalBaseURL); err != nil {
		return fmt.Errorf("portal URL rejected: %w", err)
	}

	location, err := time.LoadLocation(cfg.SyncTimezone)
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	memberRepo := repository.NewPostgresMemberRepo(db)
	attendanceRepo := repository.NewPostgresAttendanceRepo(db)

	registry := prometheus.NewRegistry()
	collector := metrics.NewPromCollector(registry)

	runner := newRunner(cfg, guard, memberRepo, attendanceRepo, collector)

	scheduler := syncer.NewScheduler(
		runner, slog.Default(),
		cfg.SyncInterval, cfg.SyncWindowStart, cfg.SyncWindowEnd, location,
	)

	cleanupJob := cleanup.NewCleanupJob(db, slog.Default())
	cleanupJob.RetentionDays = cfg.RetentionDays

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("sync_interval", cfg.SyncInterval),
		slog.String("sync_window", cfg.SyncWindowStart+"-"+cfg.SyncWindowEnd),
		slog.String("timezone", cfg.SyncTimezone),
	)

	// Daily cleanup in the background, once immediately at startup.
	go func() {
		if err := cleanupJob.Run(ctx); err != nil {
			slog.Error("cleanup job failed", slog.String("error", err.Error()))
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := cleanupJob.Run(ctx); err != nil {
					slog.Error("cleanup job failed", slog.String("error", err.Error()))
				}
			}
		}
	}()

	// The scheduler blocks on the main goroutine.
	scheduler.Start(ctx)

	slog.Info("worker stopped gracefully")
	return nil
}

// newRunner builds the batch runner with its portal stack: one hardened
// HTTP client shared by the session client and the extractor.
func newRunner(
	cfg *config.Config,
	guard security.OutboundGuardService,
	memberRepo repository.MemberRepository,
	attendanceRepo repository.AttendanceRepository,
	collector metrics.Collector,
) *syncer.Runner {
	httpClient := guard.NewSafeClient(cfg.FetchTimeout)
	sanitizer := security.NewScrapedTextSanitizer()

	sessionClient := portal.NewSessionClient(
		httpClient, slog.Default(),
		cfg.PortalBaseURL, cfg.PortalUsername, cfg.PortalPassword,
	)
	extractor := portal.NewExtractor(
		httpClient, sanitizer, slog.Default(),
		cfg.PortalBaseURL, cfg.FetchMaxSize,
	)

	return syncer.NewRunner(
		memberRepo, attendanceRepo,
		sessionClient, extractor,
		collector, slog.Default(),
		cfg.SyncPaceInterval, cfg.FetchTimeout,
	)
}

// runMigrate applies all pending database migrations.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck probes the local server's /health endpoint.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL hides credentials in the database URL for logging.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}

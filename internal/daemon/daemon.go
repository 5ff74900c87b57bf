package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takato23/cocina/internal/api"
	"github.com/takato23/cocina/internal/app/engagement"
	"github.com/takato23/cocina/internal/app/points"
	"github.com/takato23/cocina/internal/domain"
	"github.com/takato23/cocina/internal/health"
	"github.com/takato23/cocina/internal/infra/catalog"
	_ "github.com/takato23/cocina/internal/infra/metrics" // Register Prometheus metrics
	"github.com/takato23/cocina/internal/infra/sqlite"
)

// Daemon is the cocina runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Server *api.Server
	cancel context.CancelFunc

	Engine       *engagement.Engine
	Level        *engagement.LevelService
	Achievement  *engagement.AchievementService
	Streak       *engagement.StreakService
	Points       *points.Service
	Notification *engagement.NotificationService
	Health       *health.Checker
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Data.Dir
	if dataDir == "" {
		dataDir = cocinaHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Achievement catalog: built-in defaults plus an optional TOML overlay
	defs := engagement.DefaultCatalog()
	if cfg.Catalog.Overlay != "" {
		overlay, err := catalog.Load(cfg.Catalog.Overlay)
		if err != nil {
			return nil, fmt.Errorf("load catalog overlay: %w", err)
		}
		if len(overlay) > 0 {
			log.Printf("[daemon] catalog overlay: %d achievement(s) from %s", len(overlay), cfg.Catalog.Overlay)
		}
		defs = catalog.Merge(defs, overlay)
	}
	if err := engagement.ValidateCatalog(defs); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	d := &Daemon{
		Config:      cfg,
		DB:          db,
		Level:       engagement.NewLevelService(db),
		Achievement: engagement.NewAchievementServiceWithCatalog(db, defs),
		Streak:      engagement.NewStreakService(db),
		Points:      points.NewService(db),
		Health:      health.NewChecker(db, dataDir),
	}

	var sink engagement.NotificationSink
	if cfg.Notifications.Enabled {
		policy := domain.DefaultNotificationPolicy()
		if cfg.Notifications.MaxPerDay > 0 {
			policy.MaxPerDay = cfg.Notifications.MaxPerDay
		}
		if cfg.Notifications.QuietStart != "" {
			policy.QuietStart = cfg.Notifications.QuietStart
		}
		if cfg.Notifications.QuietEnd != "" {
			policy.QuietEnd = cfg.Notifications.QuietEnd
		}
		d.Notification = engagement.NewNotificationServiceWithPolicy(db, policy)
		sink = d.Notification
	}

	d.Engine = engagement.NewEngine(db, d.Level, d.Achievement, d.Streak, d.Points, sink)

	srv := api.NewServer(api.Deps{
		Engine:        d.Engine,
		Levels:        d.Level,
		Achievements:  d.Achievement,
		Streaks:       d.Streak,
		Points:        d.Points,
		Notifications: d.Notification,
		Health:        d.Health,
		CORSOrigins:   cfg.API.CORSOrigins,
	})
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}
	d.Server = srv

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("cocina serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

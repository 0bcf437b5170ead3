package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/lims-backend/internal/data/db"
	"github.com/yungbote/lims-backend/internal/http"
	"github.com/yungbote/lims-backend/internal/observability"
	"github.com/yungbote/lims-backend/internal/platform/logger"
	"github.com/yungbote/lims-backend/internal/realtime"
	"github.com/yungbote/lims-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Progress bus.Bus

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "lims-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureInventoryIndexes(theDB); err != nil {
		log.Warn("inventory index setup failed (continuing)", "error", err)
	}
	sqlDB, err := theDB.DB()
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("sql handle: %w", err)
	}

	progress, err := wireProgressBus(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	metrics := observability.NewMetrics()
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, progress, metrics)
	handlerset := wireHandlers(log, cfg, serviceset, sqlDB)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Progress:     progress,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// wireProgressBus uses Redis pub/sub when REDIS_ADDR is set and an in-process bus otherwise.
func wireProgressBus(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; import progress stays in-process")
		return bus.NewMemoryBus(), nil
	}
	b, err := bus.NewRedisBus(log, cfg.RedisAddr, cfg.ProgressChannel)
	if err != nil {
		return nil, fmt.Errorf("init progress bus: %w", err)
	}
	return b, nil
}

// Start runs background subscribers. Progress events are mirrored into the log.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	progressLog := a.Log.With("subscriber", "ImportProgress")
	err := a.Progress.StartForwarder(ctx, func(m realtime.ProgressMessage) {
		progressLog.Debug("import progress",
			"run_id", m.RunID,
			"kind", m.Kind,
			"chunk", m.Chunk,
			"committed", m.Committed,
			"total", m.Total,
		)
	})
	if err != nil {
		a.Log.Warn("progress forwarder not started", "error", err)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("listening", "port", a.Cfg.Port)
	return a.Server.Run()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Log.Warn("http shutdown", "error", err)
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Progress != nil {
		_ = a.Progress.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

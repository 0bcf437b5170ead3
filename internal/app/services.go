package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/ingest/reconcile"
	"github.com/yungbote/lims-backend/internal/ingest/upload"
	"github.com/yungbote/lims-backend/internal/observability"
	"github.com/yungbote/lims-backend/internal/platform/logger"
	"github.com/yungbote/lims-backend/internal/realtime/bus"
	"github.com/yungbote/lims-backend/internal/services"
)

type Services struct {
	Engine *reconcile.Engine
	Import services.ImportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, progress bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	engine := reconcile.NewEngine(
		db,
		log,
		reposet.User,
		reposet.Reagent,
		reposet.Batch,
		reposet.Equipment,
		progress,
		metrics,
		cfg.Reconcile,
	)
	store := upload.NewStore(log, cfg.UploadDir, cfg.MaxUploadBytes)
	return Services{
		Engine: engine,
		Import: services.NewImportService(log, store, decode.NewDecoder(log), engine, cfg.DecodeWorkers),
	}
}

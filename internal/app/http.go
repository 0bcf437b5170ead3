package app

import (
	"database/sql"

	"github.com/yungbote/lims-backend/internal/http"
	httpH "github.com/yungbote/lims-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lims-backend/internal/http/middleware"
	"github.com/yungbote/lims-backend/internal/observability"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Import *httpH.ImportHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, cfg Config, svc Services, sqlDB *sql.DB) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(sqlDB),
		Import: httpH.NewImportHandler(log, svc.Import, cfg.MaxUploadBytes),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(":"+cfg.Port, http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		ImportHandler:  handlers.Import,
		HealthHandler:  handlers.Health,
	})
}

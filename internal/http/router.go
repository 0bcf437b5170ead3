package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lims-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lims-backend/internal/http/middleware"
	"github.com/yungbote/lims-backend/internal/observability"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

const serviceName = "lims-backend"

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	ImportHandler *httpH.ImportHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName, otelgin.WithFilter(func(req *nethttp.Request) bool {
		return req.URL.Path != "/metrics" && req.URL.Path != "/healthcheck"
	})))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Bulk import
		if cfg.ImportHandler != nil {
			protected.POST("/import/:kind/excel", cfg.ImportHandler.ImportExcel)
			protected.POST("/import/:kind", cfg.ImportHandler.ImportJSON)
		}
	}

	return r
}

package app

import (
	"strings"

	"github.com/yungbote/lims-backend/internal/data/db"
	"github.com/yungbote/lims-backend/internal/ingest/reconcile"
	"github.com/yungbote/lims-backend/internal/ingest/upload"
	"github.com/yungbote/lims-backend/internal/platform/envutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
	"github.com/yungbote/lims-backend/internal/realtime/bus"
)

type Config struct {
	Port         string
	Environment  string
	Version      string
	JWTSecretKey string
	CORSOrigins  []string

	DB        db.Config
	Reconcile reconcile.Config

	UploadDir      string
	MaxUploadBytes int64
	DecodeWorkers  int

	RedisAddr       string
	ProgressChannel string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:         envutil.String("PORT", "8080"),
		Environment:  envutil.String("APP_ENV", "development"),
		Version:      envutil.String("APP_VERSION", "dev"),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:  splitList(envutil.String("CORS_ORIGINS", "")),

		DB:        db.ConfigFromEnv(),
		Reconcile: reconcile.ConfigFromEnv(),

		UploadDir:      envutil.String("IMPORT_TMP_DIR", ""),
		MaxUploadBytes: envutil.Int64("IMPORT_MAX_UPLOAD_BYTES", upload.DefaultMaxBytes),
		DecodeWorkers:  envutil.Int("IMPORT_DECODE_WORKERS", 0),

		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		ProgressChannel: envutil.String("IMPORT_PROGRESS_CHANNEL", bus.DefaultChannel),
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; every import request will be rejected")
	}
	log.Info("config loaded",
		"port", cfg.Port,
		"db_driver", cfg.DB.Driver,
		"reagent_chunk", cfg.Reconcile.ReagentChunkSize,
		"batch_chunk", cfg.Reconcile.BatchChunkSize,
		"equipment_chunk", cfg.Reconcile.EquipmentChunkSize,
		"max_upload_bytes", cfg.MaxUploadBytes,
		"decode_workers", cfg.DecodeWorkers,
		"redis", cfg.RedisAddr != "",
	)
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

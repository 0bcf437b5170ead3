package app

import (
	"reflect"
	"testing"

	"github.com/yungbote/lims-backend/internal/platform/logger"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("IMPORT_BATCH_CHUNK", "250")
	t.Setenv("IMPORT_REAGENT_CHUNK", "-1")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REDIS_ADDR", "")

	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "9090" || cfg.DB.Driver != "sqlite" {
		t.Fatalf("unexpected config: port=%q driver=%q", cfg.Port, cfg.DB.Driver)
	}
	if cfg.Reconcile.BatchChunkSize != 250 || cfg.Reconcile.ReagentChunkSize != 3000 {
		t.Fatalf("chunk sizes: %+v", cfg.Reconcile)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("cors origins: got=%v want=%v", cfg.CORSOrigins, want)
	}
	if cfg.RedisAddr != "" || cfg.ProgressChannel != "lims:import:progress" {
		t.Fatalf("progress config: addr=%q channel=%q", cfg.RedisAddr, cfg.ProgressChannel)
	}
}

package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/lims-backend/internal/data/repos"
	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/observability"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	"github.com/yungbote/lims-backend/internal/platform/logger"
	"github.com/yungbote/lims-backend/internal/realtime"
)

// Progress receives one message per committed chunk.
type Progress interface {
	Publish(ctx context.Context, msg realtime.ProgressMessage) error
}

type ChunkProgress struct {
	Index     int `json:"index"`
	Rows      int `json:"rows"`
	Processed int `json:"processed"`
	Committed int `json:"committed"`
	Total     int `json:"total"`
}

type Summary struct {
	Kind          decode.Kind     `json:"kind"`
	Total         int             `json:"total"`
	Processed     int             `json:"processed"`
	Skipped       int             `json:"skipped"`
	Chunks        int             `json:"chunks"`
	Elapsed       time.Duration   `json:"elapsed"`
	RowsPerSecond float64         `json:"rows_per_second"`
	Progress      []ChunkProgress `json:"progress"`

	started time.Time
}

type Engine struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	reagents  repos.ReagentRepo
	batches   repos.BatchRepo
	equipment repos.EquipmentRepo
	progress  Progress
	metrics   *observability.Metrics
	cfg       Config
}

func NewEngine(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	reagents repos.ReagentRepo,
	batches repos.BatchRepo,
	equipment repos.EquipmentRepo,
	progress Progress,
	metrics *observability.Metrics,
	cfg Config,
) *Engine {
	return &Engine{
		db:        db,
		log:       baseLog.With("service", "ReconcileEngine"),
		users:     users,
		reagents:  reagents,
		batches:   batches,
		equipment: equipment,
		progress:  progress,
		metrics:   metrics,
		cfg:       cfg.withDefaults(),
	}
}

// chunkFunc applies rows [start, end) inside one transaction and reports how many
// rows were written and how many were skipped as no-ops.
type chunkFunc func(dbc dbctx.Context, start, end int) (processed, skipped int, err error)

func (e *Engine) run(ctx context.Context, kind decode.Kind, total, chunkSize int, caller uuid.UUID, apply chunkFunc) (Summary, error) {
	runID := uuid.New()
	sum := Summary{Kind: kind, Total: total, Progress: []ChunkProgress{}, started: time.Now()}
	log := e.log.With("kind", kind, "run_id", runID, "caller_id", caller)

	ctx, span := observability.Tracer().Start(ctx, "import.reconcile")
	span.SetAttributes(
		attribute.String("import.kind", string(kind)),
		attribute.Int("import.total", total),
		attribute.Int("import.chunk_size", chunkSize),
	)
	defer span.End()

	log.Info("starting import", "total", total, "chunk_size", chunkSize)

	for start, index := 0, 1; start < total; start, index = start+chunkSize, index+1 {
		end := start + chunkSize
		if end > total {
			end = total
		}
		if err := ctx.Err(); err != nil {
			return e.fail(sum, span, log, index, err)
		}

		chunkStarted := time.Now()
		chunkCtx, chunkSpan := observability.Tracer().Start(ctx, "import.chunk")
		chunkSpan.SetAttributes(attribute.Int("import.chunk", index), attribute.Int("import.rows", end-start))

		var processed, skipped int
		err := e.db.WithContext(chunkCtx).Transaction(func(tx *gorm.DB) error {
			var applyErr error
			processed, skipped, applyErr = apply(dbctx.Context{Ctx: chunkCtx, Tx: tx}, start, end)
			return applyErr
		})
		if err != nil {
			chunkSpan.RecordError(err)
			chunkSpan.SetStatus(codes.Error, "chunk rolled back")
			chunkSpan.End()
			e.metrics.ObserveChunk(string(kind), "failed", time.Since(chunkStarted))
			return e.fail(sum, span, log, index, err)
		}
		chunkSpan.End()
		e.metrics.ObserveChunk(string(kind), "committed", time.Since(chunkStarted))

		sum.Processed += processed
		sum.Skipped += skipped
		sum.Chunks++
		cp := ChunkProgress{
			Index:     index,
			Rows:      end - start,
			Processed: processed,
			Committed: sum.Processed,
			Total:     total,
		}
		sum.Progress = append(sum.Progress, cp)
		log.Info("import chunk committed",
			"chunk", index,
			"rows", cp.Rows,
			"processed", processed,
			"skipped", skipped,
			"progress", end,
			"total", total,
		)
		e.publish(ctx, log, runID, kind, caller, cp)
	}

	sum.Elapsed = time.Since(sum.started)
	if secs := sum.Elapsed.Seconds(); secs > 0 {
		sum.RowsPerSecond = float64(sum.Processed) / secs
	}
	e.metrics.AddImportRows(string(kind), "processed", sum.Processed)
	e.metrics.AddImportRows(string(kind), "skipped", sum.Skipped)
	e.metrics.SetRowsPerSecond(string(kind), sum.RowsPerSecond)
	span.SetAttributes(attribute.Int("import.processed", sum.Processed))

	log.Info("import completed",
		"processed", sum.Processed,
		"skipped", sum.Skipped,
		"chunks", sum.Chunks,
		"elapsed", sum.Elapsed.String(),
		"rows_per_second", int64(sum.RowsPerSecond),
	)
	return sum, nil
}

func (e *Engine) fail(sum Summary, span trace.Span, log *logger.Logger, chunk int, err error) (Summary, error) {
	sum.Elapsed = time.Since(sum.started)
	e.metrics.AddImportRows(string(sum.Kind), "processed", sum.Processed)
	e.metrics.AddImportRows(string(sum.Kind), "failed", sum.Total-sum.Processed-sum.Skipped)
	span.RecordError(err)
	span.SetStatus(codes.Error, "import aborted")
	log.Error("import aborted",
		"chunk", chunk,
		"committed", sum.Processed,
		"total", sum.Total,
		"error", err,
	)
	return sum, &PersistenceError{Kind: sum.Kind, Chunk: chunk, Committed: sum.Processed, Err: err}
}

func (e *Engine) publish(ctx context.Context, log *logger.Logger, runID uuid.UUID, kind decode.Kind, caller uuid.UUID, cp ChunkProgress) {
	if e.progress == nil {
		return
	}
	err := e.progress.Publish(ctx, realtime.ProgressMessage{
		Event:     realtime.EventImportProgress,
		RunID:     runID,
		Kind:      string(kind),
		Chunk:     cp.Index,
		Rows:      cp.Rows,
		Processed: cp.Processed,
		Committed: cp.Committed,
		Total:     cp.Total,
		CallerID:  caller,
		At:        time.Now().UTC(),
	})
	if err != nil {
		e.metrics.IncProgressPublish("failed")
		log.Warn("progress publish failed", "chunk", cp.Index, "error", err)
		return
	}
	e.metrics.IncProgressPublish("ok")
}

package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/ingest/reconcile"
	"github.com/yungbote/lims-backend/internal/ingest/upload"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lims-backend/internal/pkg/errors"
	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

// Row errors beyond this are counted but not echoed back to the client.
const maxReportedRowErrors = 50

type ImportResult struct {
	Kind          decode.Kind `json:"kind"`
	Processed     int         `json:"processed"`
	Skipped       int         `json:"skipped"`
	Total         int         `json:"total"`
	Message       string      `json:"message"`
	Warning       string      `json:"warning,omitempty"`
	Dropped       int         `json:"dropped"`
	RowErrors     []string    `json:"row_errors,omitempty"`
	Chunks        int         `json:"chunks"`
	ElapsedMS     int64       `json:"elapsed_ms"`
	RowsPerSecond int64       `json:"rows_per_second"`
}

type ImportService interface {
	ImportFile(dbc dbctx.Context, kind decode.Kind, filename string, r io.Reader) (*ImportResult, error)
	ImportJSON(dbc dbctx.Context, kind decode.Kind, body []byte) (*ImportResult, error)
}

type importService struct {
	log     *logger.Logger
	store   *upload.Store
	decoder *decode.Decoder
	engine  *reconcile.Engine
	// decodeSlots bounds concurrent decodes across requests.
	decodeSlots *semaphore.Weighted
}

// NewImportService builds the import pipeline. decodeWorkers <= 0 means GOMAXPROCS.
func NewImportService(log *logger.Logger, store *upload.Store, decoder *decode.Decoder, engine *reconcile.Engine, decodeWorkers int) ImportService {
	if decodeWorkers <= 0 {
		decodeWorkers = runtime.GOMAXPROCS(0)
	}
	return &importService{
		log:         log.With("service", "ImportService"),
		store:       store,
		decoder:     decoder,
		engine:      engine,
		decodeSlots: semaphore.NewWeighted(int64(decodeWorkers)),
	}
}

// withDecodeSlot runs fn once a decode slot is free. A cancelled request gives up its place in line.
func (s *importService) withDecodeSlot(ctx context.Context, fn func() (decode.Result, error)) (decode.Result, error) {
	if err := s.decodeSlots.Acquire(ctx, 1); err != nil {
		return decode.Result{}, fmt.Errorf("wait for decode slot: %w", err)
	}
	defer s.decodeSlots.Release(1)
	return fn()
}

func (s *importService) ImportFile(dbc dbctx.Context, kind decode.Kind, filename string, r io.Reader) (*ImportResult, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	caller, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, pkgerrors.ErrNoFile
	}

	path, release, err := s.store.Save(ctx, r, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer release()

	res, err := s.withDecodeSlot(ctx, func() (decode.Result, error) {
		return s.decoder.DecodeSheet(ctx, kind, path)
	})
	if err != nil {
		s.log.Warn("spreadsheet rejected", "kind", kind, "file", filename, "error", err)
		return nil, err
	}
	s.log.Info("spreadsheet decoded", "kind", kind, "file", filename, "rows", res.Len(), "dropped", len(res.Errors))
	return s.reconcile(dbc, res, caller)
}

func (s *importService) ImportJSON(dbc dbctx.Context, kind decode.Kind, body []byte) (*ImportResult, error) {
	caller, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	res, err := s.withDecodeSlot(ctxutil.Default(dbc.Ctx), func() (decode.Result, error) {
		return s.decoder.DecodeJSON(kind, body)
	})
	if err != nil {
		s.log.Warn("json import rejected", "kind", kind, "error", err)
		return nil, err
	}
	return s.reconcile(dbc, res, caller)
}

func (s *importService) reconcile(dbc dbctx.Context, res decode.Result, caller uuid.UUID) (*ImportResult, error) {
	ctx := ctxutil.Default(dbc.Ctx)

	var (
		sum reconcile.Summary
		err error
	)
	switch res.Kind {
	case decode.KindReagents:
		sum, err = s.engine.ReconcileReagents(ctx, res.Reagents, caller)
	case decode.KindBatches:
		sum, err = s.engine.ReconcileBatches(ctx, res.Batches, caller)
	case decode.KindEquipment:
		sum, err = s.engine.ReconcileEquipment(ctx, res.Equipment, caller)
	default:
		return nil, fmt.Errorf("%w: %q", pkgerrors.ErrUnsupportedKind, res.Kind)
	}

	out := &ImportResult{
		Kind:          res.Kind,
		Processed:     sum.Processed,
		Skipped:       sum.Skipped,
		Total:         res.Total,
		Message:       fmt.Sprintf("Imported %d %s", sum.Processed, res.Kind),
		Warning:       res.FirstError(),
		Dropped:       len(res.Errors),
		Chunks:        sum.Chunks,
		ElapsedMS:     sum.Elapsed.Milliseconds(),
		RowsPerSecond: int64(sum.RowsPerSecond),
	}
	for i, rowErr := range res.Errors {
		if i == maxReportedRowErrors {
			break
		}
		out.RowErrors = append(out.RowErrors, rowErr.Error())
	}
	return out, err
}

func callerID(dbc dbctx.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	return rd.UserID, nil
}

// KindFromPath maps the trailing segment of an import route onto a decode kind.
func KindFromPath(segment string) (decode.Kind, error) {
	kind, err := decode.ParseKind(strings.TrimSpace(segment))
	if err != nil {
		return "", fmt.Errorf("%w: %q", pkgerrors.ErrUnsupportedKind, segment)
	}
	return kind, nil
}

package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/yungbote/lims-backend/internal/data/repos"
	"github.com/yungbote/lims-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/ingest/reconcile"
	"github.com/yungbote/lims-backend/internal/ingest/upload"
	"github.com/yungbote/lims-backend/internal/observability"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/lims-backend/internal/pkg/errors"
	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
	"github.com/yungbote/lims-backend/internal/realtime/bus"
)

type importFixture struct {
	db     *gorm.DB
	svc    ImportService
	tmpDir string
	caller uuid.UUID
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	db := testutil.DB(t)
	log := logger.Nop()
	engine := reconcile.NewEngine(
		db,
		log,
		repos.NewUserRepo(db, log),
		repos.NewReagentRepo(db, log),
		repos.NewBatchRepo(db, log),
		repos.NewEquipmentRepo(db, log),
		bus.NewMemoryBus(),
		observability.NewMetrics(),
		reconcile.DefaultConfig(),
	)
	tmpDir := t.TempDir()
	store := upload.NewStore(log, tmpDir, upload.DefaultMaxBytes)
	return &importFixture{
		db:     db,
		svc:    NewImportService(log, store, decode.NewDecoder(log), engine, 2),
		tmpDir: tmpDir,
		caller: uuid.New(),
	}
}

func (f *importFixture) dbc() dbctx.Context {
	return dbctx.Context{Ctx: ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: f.caller})}
}

func (f *importFixture) assertSpoolEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.tmpDir)
	if err != nil {
		t.Fatalf("read spool dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp upload not released: %d file(s) left", len(entries))
	}
}

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestImportRequiresCaller(t *testing.T) {
	f := newImportFixture(t)
	_, err := f.svc.ImportJSON(dbctx.Context{Ctx: context.Background()}, decode.KindReagents, []byte(`[{"name":"Acetone"}]`))
	if !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestImportJSONReagents(t *testing.T) {
	f := newImportFixture(t)
	res, err := f.svc.ImportJSON(f.dbc(), decode.KindReagents, []byte(`[
		{"name":"Acetone","quantity":5,"units":"L","batch_number":"B1"},
		{"name":"acetone","quantity":3,"units":"L","batch_number":"B1"},
		{"name":"Water","quantity":"lots"},
		{"formula":"H2O"}
	]`))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if res.Processed != 2 || res.Skipped != 1 || res.Total != 4 || res.Dropped != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message != "Imported 2 reagents" {
		t.Fatalf("message: got=%q", res.Message)
	}
	if res.Warning == "" || len(res.RowErrors) != 1 {
		t.Fatalf("dropped row not reported: %+v", res)
	}

	var batches []types.Batch
	if err := f.db.Find(&batches).Error; err != nil {
		t.Fatalf("load batches: %v", err)
	}
	if len(batches) != 1 || batches[0].Quantity != 8 {
		t.Fatalf("batches: %+v", batches)
	}
}

func TestImportFileBatches(t *testing.T) {
	f := newImportFixture(t)
	body := workbookBytes(t, [][]any{
		{"Reagent", "Batch number", "Quantity", "Units", "Expiration date"},
		{"Acetone", "B1", 5, "L", 45292},
		{"Acetone", "B2", "many", "L", nil},
		{"Ethanol", "E1", 1.5, "L", "31.12.2025"},
	})

	res, err := f.svc.ImportFile(f.dbc(), decode.KindBatches, "stock.xlsx", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if res.Processed != 2 || res.Dropped != 1 || res.Chunks != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message != "Imported 2 batches" {
		t.Fatalf("message: got=%q", res.Message)
	}
	f.assertSpoolEmpty(t)

	var reagents []types.Reagent
	if err := f.db.Order("name ASC").Find(&reagents).Error; err != nil {
		t.Fatalf("load reagents: %v", err)
	}
	if len(reagents) != 2 || reagents[0].CreatedBy != f.caller {
		t.Fatalf("bare reagents not created: %+v", reagents)
	}
}

func TestImportFileNoValidRowsLeavesStoreUntouched(t *testing.T) {
	f := newImportFixture(t)
	body := workbookBytes(t, [][]any{
		{"Name", "Type", "Quantity"},
		{"Centrifuge", "instrument", "many"},
		{"Beaker", "glassware", 1.5},
	})

	_, err := f.svc.ImportFile(f.dbc(), decode.KindEquipment, "eq.xlsx", bytes.NewReader(body))
	var empty *decode.EmptyBatchError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyBatchError, got %v", err)
	}
	f.assertSpoolEmpty(t)

	var n int64
	if err := f.db.Model(&types.Equipment{}).Count(&n).Error; err != nil {
		t.Fatalf("count equipment: %v", err)
	}
	if n != 0 {
		t.Fatalf("store touched: %d equipment rows", n)
	}
}

func TestImportJSONBlankNamesAreSkipped(t *testing.T) {
	f := newImportFixture(t)
	res, err := f.svc.ImportJSON(f.dbc(), decode.KindReagents, []byte(`[{"name":""},{"name":"   "}]`))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if res.Processed != 0 || res.Skipped != 2 || res.Dropped != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message != "Imported 0 reagents" {
		t.Fatalf("message: got=%q", res.Message)
	}

	var n int64
	if err := f.db.Model(&types.Reagent{}).Count(&n).Error; err != nil {
		t.Fatalf("count reagents: %v", err)
	}
	if n != 0 {
		t.Fatalf("blank names persisted: %d reagent rows", n)
	}
}

func TestImportFileRejectsNonWorkbook(t *testing.T) {
	f := newImportFixture(t)
	_, err := f.svc.ImportFile(f.dbc(), decode.KindReagents, "notes.xlsx", bytes.NewReader([]byte("not a workbook")))
	var invalid *decode.ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	f.assertSpoolEmpty(t)
}

func TestImportWaitsForDecodeSlot(t *testing.T) {
	f := newImportFixture(t)
	svc := f.svc.(*importService)
	if err := svc.decodeSlots.Acquire(context.Background(), 2); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer svc.decodeSlots.Release(2)

	ctx, cancel := context.WithTimeout(f.dbc().Ctx, 20*time.Millisecond)
	defer cancel()
	_, err := f.svc.ImportJSON(dbctx.Context{Ctx: ctx}, decode.KindReagents, []byte(`[{"name":"Acetone"}]`))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while slots are busy, got %v", err)
	}

	var n int64
	if err := f.db.Model(&types.Reagent{}).Count(&n).Error; err != nil {
		t.Fatalf("count reagents: %v", err)
	}
	if n != 0 {
		t.Fatalf("store touched while waiting: %d rows", n)
	}
}

func TestKindFromPath(t *testing.T) {
	if k, err := KindFromPath("Equipment"); err != nil || k != decode.KindEquipment {
		t.Fatalf("KindFromPath: got=%q err=%v", k, err)
	}
	if _, err := KindFromPath("solvents"); !errors.Is(err, pkgerrors.ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
}


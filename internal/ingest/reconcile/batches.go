package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/ingest/identity"
	"github.com/yungbote/lims-backend/internal/normalization"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
)

// ReconcileBatches adds stock to existing batches. Unknown reagent names are
// created bare inside the chunk transaction.
func (e *Engine) ReconcileBatches(ctx context.Context, recs []decode.BatchRecord, caller uuid.UUID) (Summary, error) {
	cache, err := identity.Load(dbctx.Context{Ctx: ctx}, nil, e.reagents)
	if err != nil {
		return Summary{Kind: decode.KindBatches, Total: len(recs)}, &PersistenceError{Kind: decode.KindBatches, Err: err}
	}
	e.log.Info("identity cache loaded", "kind", decode.KindBatches, "reagents", cache.Stats().Reagents)

	return e.run(ctx, decode.KindBatches, len(recs), e.cfg.BatchChunkSize, caller, func(dbc dbctx.Context, start, end int) (int, int, error) {
		processed, skipped := 0, 0
		for i := start; i < end; i++ {
			ok, err := e.applyBatch(dbc, cache, &recs[i], caller)
			if err != nil {
				return processed, skipped, &rowFailure{row: i + 1, err: err}
			}
			if ok {
				processed++
			} else {
				skipped++
			}
		}
		return processed, skipped, nil
	})
}

func (e *Engine) applyBatch(dbc dbctx.Context, cache *identity.Cache, rec *decode.BatchRecord, caller uuid.UUID) (bool, error) {
	reagentName := strings.TrimSpace(rec.ReagentName)
	batchNumber := strings.TrimSpace(rec.BatchNumber)
	if reagentName == "" || batchNumber == "" || rec.Quantity <= 0 {
		return false, nil
	}

	reagentID, minted := cache.ResolveReagent(reagentName)
	if minted {
		stored, err := e.reagents.CreateBare(dbc, reagentID, reagentName, caller)
		if err != nil {
			return false, fmt.Errorf("create reagent %q: %w", reagentName, err)
		}
		if stored != uuid.Nil && stored != reagentID {
			reagentID = stored
			cache.RememberReagent(reagentName, reagentID)
		}
	}

	unit := strings.TrimSpace(rec.Units)
	if unit == "" {
		unit = types.DefaultBatchUnit
	}
	batch := &types.Batch{
		ReagentID:        reagentID,
		BatchNumber:      batchNumber,
		Supplier:         normalization.OptionalString(rec.Supplier),
		Quantity:         rec.Quantity,
		OriginalQuantity: rec.Quantity,
		Unit:             unit,
		ExpiryDate:       rec.ExpirationDate,
		Location:         normalization.OptionalString(rec.Location),
		Notes:            normalization.OptionalString(rec.Notes),
		Status:           types.BatchStatusAvailable,
		CreatedBy:        caller,
		UpdatedBy:        caller,
	}
	if err := e.batches.Upsert(dbc, batch); err != nil {
		return false, fmt.Errorf("upsert batch %q of reagent %q: %w", batchNumber, reagentName, err)
	}
	return true, nil
}

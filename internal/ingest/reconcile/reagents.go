package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/ingest/identity"
	"github.com/yungbote/lims-backend/internal/normalization"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
)

// ReconcileReagents upserts reagents with fill-only merging and applies any
// initial batch a row carries.
func (e *Engine) ReconcileReagents(ctx context.Context, recs []decode.ReagentRecord, caller uuid.UUID) (Summary, error) {
	cache, err := identity.Load(dbctx.Context{Ctx: ctx}, e.users, e.reagents)
	if err != nil {
		return Summary{Kind: decode.KindReagents, Total: len(recs)}, &PersistenceError{Kind: decode.KindReagents, Err: err}
	}
	stats := cache.Stats()
	e.log.Info("identity cache loaded", "kind", decode.KindReagents, "users", stats.Owners, "reagents", stats.Reagents)

	return e.run(ctx, decode.KindReagents, len(recs), e.cfg.ReagentChunkSize, caller, func(dbc dbctx.Context, start, end int) (int, int, error) {
		processed, skipped := 0, 0
		for i := start; i < end; i++ {
			ok, err := e.applyReagent(dbc, cache, &recs[i], caller)
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

func (e *Engine) applyReagent(dbc dbctx.Context, cache *identity.Cache, rec *decode.ReagentRecord, caller uuid.UUID) (bool, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return false, nil
	}

	id, minted := cache.ResolveReagent(name)
	now := time.Now().UTC()
	createdAt := now
	if rec.AddedAt != nil {
		if t, ok := normalization.ParseCanonical(*rec.AddedAt); ok {
			createdAt = t
		}
	}

	row := &types.Reagent{
		ID:                id,
		Name:              name,
		Formula:           normalization.OptionalString(rec.Formula),
		CASNumber:         normalization.OptionalString(rec.CASNumber),
		MolecularWeight:   rec.MolecularWeight,
		Manufacturer:      normalization.OptionalString(rec.Manufacturer),
		Description:       normalization.OptionalString(rec.Description),
		CatalogNumber:     normalization.OptionalString(rec.CatalogNumber),
		StorageConditions: normalization.OptionalString(rec.Storage),
		Appearance:        normalization.OptionalString(rec.Appearance),
		HazardPictograms:  normalization.OptionalString(rec.HazardPictograms),
		Status:            types.ReagentStatusActive,
		CreatedBy:         cache.Owner(rec.Owner, caller),
		UpdatedBy:         caller,
		CreatedAt:         createdAt,
	}
	if !minted {
		// Known names resolve through the name key; the existing row keeps its id.
		row.ID = uuid.New()
	}
	if err := e.reagents.Upsert(dbc, row); err != nil {
		return false, fmt.Errorf("upsert reagent %q: %w", name, err)
	}
	if row.ID != uuid.Nil && row.ID != id {
		id = row.ID
		cache.RememberReagent(name, id)
	}

	batchNumber := ""
	if rec.BatchNumber != nil {
		batchNumber = strings.TrimSpace(*rec.BatchNumber)
	}
	if batchNumber == "" || rec.Quantity == nil || *rec.Quantity <= 0 {
		return true, nil
	}
	unit := types.DefaultBatchUnit
	if u := normalization.OptionalString(rec.Units); u != nil {
		unit = *u
	}
	batch := &types.Batch{
		ReagentID:        id,
		BatchNumber:      batchNumber,
		Quantity:         *rec.Quantity,
		OriginalQuantity: *rec.Quantity,
		Unit:             unit,
		ExpiryDate:       rec.ExpiryDate,
		Location:         normalization.OptionalString(rec.Location),
		Status:           types.BatchStatusAvailable,
		CreatedBy:        caller,
		UpdatedBy:        caller,
	}
	if err := e.batches.Upsert(dbc, batch); err != nil {
		return false, fmt.Errorf("upsert batch %q of reagent %q: %w", batchNumber, name, err)
	}
	return true, nil
}

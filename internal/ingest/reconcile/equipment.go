package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/ingest/decode"
	"github.com/yungbote/lims-backend/internal/normalization"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
)

// ReconcileEquipment inserts equipment; a known serial number only refreshes the name.
func (e *Engine) ReconcileEquipment(ctx context.Context, recs []decode.EquipmentRecord, caller uuid.UUID) (Summary, error) {
	return e.run(ctx, decode.KindEquipment, len(recs), e.cfg.EquipmentChunkSize, caller, func(dbc dbctx.Context, start, end int) (int, int, error) {
		processed, skipped := 0, 0
		for i := start; i < end; i++ {
			ok, err := e.applyEquipment(dbc, &recs[i], caller)
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

func (e *Engine) applyEquipment(dbc dbctx.Context, rec *decode.EquipmentRecord, caller uuid.UUID) (bool, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return false, nil
	}
	quantity := 1
	if rec.Quantity != nil {
		quantity = *rec.Quantity
	}
	row := &types.Equipment{
		Name:         name,
		Type:         normalization.EquipmentType(rec.Type),
		SerialNumber: normalization.OptionalString(rec.SerialNumber),
		Manufacturer: normalization.OptionalString(rec.Manufacturer),
		Quantity:     quantity,
		Unit:         normalization.OptionalString(rec.Unit),
		Status:       types.EquipmentStatusAvailable,
		Location:     normalization.OptionalString(rec.Location),
		Description:  normalization.OptionalString(rec.Description),
		CreatedBy:    caller,
	}
	if err := e.equipment.Upsert(dbc, row); err != nil {
		return false, fmt.Errorf("upsert equipment %q: %w", name, err)
	}
	return true, nil
}

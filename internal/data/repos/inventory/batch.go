package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

type BatchRepo interface {
	// Upsert inserts row or adds its quantities to the batch with the same (reagent, number).
	Upsert(dbc dbctx.Context, row *types.Batch) error
	GetByReagent(dbc dbctx.Context, reagentID uuid.UUID) ([]*types.Batch, error)
}

type batchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return &batchRepo{db: db, log: baseLog.With("repo", "BatchRepo")}
}

func (r *batchRepo) Upsert(dbc dbctx.Context, row *types.Batch) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ReagentID == uuid.Nil {
		return nil
	}
	row.BatchNumber = strings.TrimSpace(row.BatchNumber)
	if row.BatchNumber == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.BatchStatusAvailable
	}
	if strings.TrimSpace(row.Unit) == "" {
		row.Unit = types.DefaultBatchUnit
	}
	now := time.Now().UTC()
	if row.ReceivedDate.IsZero() {
		row.ReceivedDate = now
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	// reserved_quantity is deliberately absent from the update set.
	return t.WithContext(ctxutil.Default(dbc.Ctx)).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reagent_id"}, {Name: "batch_number"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":          gorm.Expr("batches.quantity + excluded.quantity"),
				"original_quantity": gorm.Expr("batches.original_quantity + excluded.original_quantity"),
				"updated_at":        gorm.Expr("excluded.updated_at"),
				"updated_by":        gorm.Expr("excluded.updated_by"),
			}),
		}).
		Create(row).Error
}

func (r *batchRepo) GetByReagent(dbc dbctx.Context, reagentID uuid.UUID) ([]*types.Batch, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Batch
	if reagentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Where("reagent_id = ?", reagentID).
		Order("batch_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

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

type EquipmentRepo interface {
	// Upsert inserts row; a repeated serial number only refreshes the name.
	Upsert(dbc dbctx.Context, row *types.Equipment) error
	GetBySerials(dbc dbctx.Context, serials []string) ([]*types.Equipment, error)
}

type equipmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEquipmentRepo(db *gorm.DB, baseLog *logger.Logger) EquipmentRepo {
	return &equipmentRepo{db: db, log: baseLog.With("repo", "EquipmentRepo")}
}

func (r *equipmentRepo) Upsert(dbc dbctx.Context, row *types.Equipment) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || strings.TrimSpace(row.Name) == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.EquipmentStatusAvailable
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	q := t.WithContext(ctxutil.Default(dbc.Ctx))
	if row.SerialNumber == nil {
		return q.Create(row).Error
	}
	return q.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "serial_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(row).Error
}

func (r *equipmentRepo) GetBySerials(dbc dbctx.Context, serials []string) ([]*types.Equipment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Equipment
	if len(serials) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Where("serial_number IN ?", serials).
		Order("serial_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

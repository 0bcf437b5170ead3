package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/normalization"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

type ReagentRepo interface {
	ListNames(dbc dbctx.Context) (map[string]uuid.UUID, error)
	// Upsert inserts row or fills the NULL columns of the reagent with the same name key.
	// row.ID is set to the stored id either way.
	Upsert(dbc dbctx.Context, row *types.Reagent) error
	// CreateBare inserts a name-only reagent unless one with the same name key exists,
	// and returns the stored id.
	CreateBare(dbc dbctx.Context, id uuid.UUID, name string, createdBy uuid.UUID) (uuid.UUID, error)
	// IDByName returns the stored id for name's key, uuid.Nil when absent.
	IDByName(dbc dbctx.Context, name string) (uuid.UUID, error)
	GetByNames(dbc dbctx.Context, names []string) ([]*types.Reagent, error)
}

// returningID makes conflicting inserts report the id already stored.
var returningID = clause.Returning{Columns: []clause.Column{{Name: "id"}}}

type reagentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReagentRepo(db *gorm.DB, baseLog *logger.Logger) ReagentRepo {
	return &reagentRepo{db: db, log: baseLog.With("repo", "ReagentRepo")}
}

func (r *reagentRepo) ListNames(dbc dbctx.Context) (map[string]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Model(&types.Reagent{}).
		Select("id", "name").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		out[row.Name] = row.ID
	}
	return out, nil
}

func (r *reagentRepo) Upsert(dbc dbctx.Context, row *types.Reagent) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || strings.TrimSpace(row.Name) == "" {
		return nil
	}
	prepareReagent(row)

	updates := map[string]interface{}{
		"updated_at": gorm.Expr("excluded.updated_at"),
		"updated_by": gorm.Expr("excluded.updated_by"),
	}
	for _, col := range types.ReagentFillColumns {
		updates[col] = gorm.Expr("COALESCE(reagents." + col + ", excluded." + col + ")")
	}

	return t.WithContext(ctxutil.Default(dbc.Ctx)).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "name_key"}},
				DoUpdates: clause.Assignments(updates),
			},
			returningID,
		).
		Create(row).Error
}

func (r *reagentRepo) CreateBare(dbc dbctx.Context, id uuid.UUID, name string, createdBy uuid.UUID) (uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.Reagent{
		ID:        id,
		Name:      name,
		Status:    types.ReagentStatusActive,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
	}
	if strings.TrimSpace(row.Name) == "" {
		return uuid.Nil, nil
	}
	prepareReagent(row)
	// The self-assignment keeps the existing row untouched while still returning its id.
	err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "name_key"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": gorm.Expr("reagents.updated_at")}),
			},
			returningID,
		).
		Create(row).Error
	if err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

func (r *reagentRepo) IDByName(dbc dbctx.Context, name string) (uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	key := normalization.Key(name)
	if key == "" {
		return uuid.Nil, nil
	}
	var ids []uuid.UUID
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Model(&types.Reagent{}).
		Where("name_key = ?", key).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, nil
	}
	return ids[0], nil
}

func (r *reagentRepo) GetByNames(dbc dbctx.Context, names []string) ([]*types.Reagent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Reagent
	keys := make([]string, 0, len(names))
	for _, n := range names {
		if k := normalization.Key(n); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Where("name_key IN ?", keys).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func prepareReagent(row *types.Reagent) {
	row.Name = strings.TrimSpace(row.Name)
	row.NameKey = normalization.Key(row.Name)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.ReagentStatusActive
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
}

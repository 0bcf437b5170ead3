package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

type UserRepo interface {
	ListUsernames(dbc dbctx.Context) (map[string]uuid.UUID, error)
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

// ListUsernames returns every username with its id, spelled as stored.
func (r *userRepo) ListUsernames(dbc dbctx.Context) (map[string]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []struct {
		ID       uuid.UUID
		Username string
	}
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).
		Model(&types.User{}).
		Select("id", "username").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		out[row.Username] = row.ID
	}
	return out, nil
}

func (r *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	now := time.Now().UTC()
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		u.UpdatedAt = now
	}
	if err := t.WithContext(ctxutil.Default(dbc.Ctx)).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

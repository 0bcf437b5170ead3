package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lims-backend/internal/data/repos/inventory"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

type UserRepo = inventory.UserRepo
type ReagentRepo = inventory.ReagentRepo
type BatchRepo = inventory.BatchRepo
type EquipmentRepo = inventory.EquipmentRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return inventory.NewUserRepo(db, baseLog)
}
func NewReagentRepo(db *gorm.DB, baseLog *logger.Logger) ReagentRepo {
	return inventory.NewReagentRepo(db, baseLog)
}
func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return inventory.NewBatchRepo(db, baseLog)
}
func NewEquipmentRepo(db *gorm.DB, baseLog *logger.Logger) EquipmentRepo {
	return inventory.NewEquipmentRepo(db, baseLog)
}

package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lims-backend/internal/data/repos"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	Reagent   repos.ReagentRepo
	Batch     repos.BatchRepo
	Equipment repos.EquipmentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		Reagent:   repos.NewReagentRepo(db, log),
		Batch:     repos.NewBatchRepo(db, log),
		Equipment: repos.NewEquipmentRepo(db, log),
	}
}

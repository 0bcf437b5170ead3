package domain

import "github.com/yungbote/lims-backend/internal/domain/inventory"

type User = inventory.User
type Reagent = inventory.Reagent
type Batch = inventory.Batch
type Equipment = inventory.Equipment

const (
	ReagentStatusActive      = inventory.ReagentStatusActive
	BatchStatusAvailable     = inventory.BatchStatusAvailable
	EquipmentStatusAvailable = inventory.EquipmentStatusAvailable
	DefaultBatchUnit         = inventory.DefaultBatchUnit
)

var (
	ReagentColumns     = inventory.ReagentColumns
	ReagentFillColumns = inventory.ReagentFillColumns
	BatchColumns       = inventory.BatchColumns
	EquipmentColumns   = inventory.EquipmentColumns
)

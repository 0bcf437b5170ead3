package inventory

import (
	"time"

	"github.com/google/uuid"
)

const EquipmentStatusAvailable = "available"

type Equipment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`
	Type string    `gorm:"not null;column:type" json:"type"`
	// NULL serials never collide, so unserialized items always insert.
	SerialNumber *string   `gorm:"uniqueIndex:idx_equipment_serial;column:serial_number" json:"serial_number,omitempty"`
	Manufacturer *string   `gorm:"column:manufacturer" json:"manufacturer,omitempty"`
	Quantity     int       `gorm:"not null;column:quantity" json:"quantity"`
	Unit         *string   `gorm:"column:unit" json:"unit,omitempty"`
	Status       string    `gorm:"not null;column:status" json:"status"`
	Location     *string   `gorm:"column:location" json:"location,omitempty"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Equipment) TableName() string { return "equipment" }

var EquipmentColumns = []string{
	"id", "name", "type", "serial_number", "manufacturer", "quantity", "unit",
	"status", "location", "description", "created_by", "created_at", "updated_at",
}

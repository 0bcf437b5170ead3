package inventory

import (
	"time"

	"github.com/google/uuid"
)

const (
	BatchStatusAvailable = "available"
	DefaultBatchUnit     = "pcs"
)

type Batch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReagentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_batches_reagent_batch,priority:1;column:reagent_id" json:"reagent_id"`
	BatchNumber string    `gorm:"not null;uniqueIndex:idx_batches_reagent_batch,priority:2;column:batch_number" json:"batch_number"`
	Supplier    *string   `gorm:"column:supplier" json:"supplier,omitempty"`
	// Quantity and OriginalQuantity accumulate across imports. ReservedQuantity is owned by reservations.
	Quantity         float64   `gorm:"not null;column:quantity" json:"quantity"`
	OriginalQuantity float64   `gorm:"not null;column:original_quantity" json:"original_quantity"`
	ReservedQuantity float64   `gorm:"not null;column:reserved_quantity" json:"reserved_quantity"`
	Unit             string    `gorm:"not null;column:unit" json:"unit"`
	ExpiryDate       *string   `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	Location         *string   `gorm:"column:location" json:"location,omitempty"`
	Notes            *string   `gorm:"column:notes" json:"notes,omitempty"`
	Status           string    `gorm:"not null;column:status" json:"status"`
	ReceivedDate     time.Time `gorm:"not null;column:received_date" json:"received_date"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by"`
	UpdatedBy        uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (Batch) TableName() string { return "batches" }

var BatchColumns = []string{
	"id", "reagent_id", "batch_number", "supplier", "quantity", "original_quantity",
	"reserved_quantity", "unit", "expiry_date", "location", "notes", "status",
	"received_date", "created_by", "updated_by", "created_at", "updated_at",
}

package inventory

import (
	"time"

	"github.com/google/uuid"
)

const ReagentStatusActive = "active"

type Reagent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// Name keeps the spelling of the first sighting. NameKey is the case-folded identity.
	Name              string    `gorm:"not null;column:name" json:"name"`
	NameKey           string    `gorm:"not null;uniqueIndex:idx_reagents_name_key;column:name_key" json:"-"`
	Formula           *string   `gorm:"column:formula" json:"formula,omitempty"`
	CASNumber         *string   `gorm:"column:cas_number" json:"cas_number,omitempty"`
	MolecularWeight   *float64  `gorm:"column:molecular_weight" json:"molecular_weight,omitempty"`
	Manufacturer      *string   `gorm:"column:manufacturer" json:"manufacturer,omitempty"`
	Description       *string   `gorm:"column:description" json:"description,omitempty"`
	CatalogNumber     *string   `gorm:"column:catalog_number" json:"catalog_number,omitempty"`
	StorageConditions *string   `gorm:"column:storage_conditions" json:"storage_conditions,omitempty"`
	Appearance        *string   `gorm:"column:appearance" json:"appearance,omitempty"`
	HazardPictograms  *string   `gorm:"column:hazard_pictograms" json:"hazard_pictograms,omitempty"`
	Status            string    `gorm:"not null;column:status" json:"status"`
	CreatedBy         uuid.UUID `gorm:"type:uuid;index;column:created_by" json:"created_by"`
	UpdatedBy         uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (Reagent) TableName() string { return "reagents" }

// ReagentFillColumns are merged on conflict by keeping existing non-null values.
var ReagentFillColumns = []string{
	"formula",
	"cas_number",
	"molecular_weight",
	"manufacturer",
	"description",
	"catalog_number",
	"storage_conditions",
	"appearance",
	"hazard_pictograms",
}

// ReagentColumns is the stable column set exposed to read and export paths.
var ReagentColumns = []string{
	"id", "name", "formula", "cas_number", "molecular_weight", "manufacturer",
	"description", "catalog_number", "storage_conditions", "appearance",
	"hazard_pictograms", "status", "created_by", "updated_by", "created_at", "updated_at",
}

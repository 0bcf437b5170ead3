package decode

import "github.com/yungbote/lims-backend/internal/normalization"

type Field string

const (
	FieldName             Field = "name"
	FieldFormula          Field = "formula"
	FieldCASNumber        Field = "cas_number"
	FieldMolecularWeight  Field = "molecular_weight"
	FieldManufacturer     Field = "manufacturer"
	FieldDescription      Field = "description"
	FieldCatalogNumber    Field = "catalog_number"
	FieldStorage          Field = "storage"
	FieldAppearance       Field = "appearance"
	FieldOwner            Field = "owner"
	FieldAddedAt          Field = "added_at"
	FieldBatchNumber      Field = "batch_number"
	FieldQuantityPcs      Field = "quantity_pcs"
	FieldQuantity         Field = "quantity"
	FieldUnits            Field = "units"
	FieldExpiryDate       Field = "expiry_date"
	FieldLocation         Field = "location"
	FieldHazardPictograms Field = "hazard_pictograms"

	FieldReagentName    Field = "reagent_name"
	FieldSupplier       Field = "supplier"
	FieldExpirationDate Field = "expiration_date"
	FieldNotes          Field = "notes"

	FieldType         Field = "type"
	FieldSerialNumber Field = "serial_number"
	FieldUnit         Field = "unit"
)

type fieldType int

const (
	textField fieldType = iota
	numberField
	integerField
	dateField
)

type fieldSpec struct {
	typ fieldType
}

// Aliases lists the accepted header spellings per canonical field.
// Matching is case-insensitive and whitespace-trimmed.
var Aliases = map[Kind]map[Field][]string{
	KindReagents: {
		FieldName:             {"name", "reagent_name", "Название"},
		FieldFormula:          {"formula", "chemical_formula", "Формула"},
		FieldCASNumber:        {"cas_number", "CAS", "CAS Number"},
		FieldMolecularWeight:  {"molecular_weight", "Molecular weight", "MW", "Mol. Weight"},
		FieldManufacturer:     {"manufacturer", "Производитель"},
		FieldDescription:      {"description", "Описание"},
		FieldCatalogNumber:    {"catalog_number", "Catalog Number", "cat_number", "Catalogue No", "Catalog #"},
		FieldStorage:          {"storage", "Storage_cond", "Storage conditions", "Safety"},
		FieldAppearance:       {"appearance", "Color"},
		FieldOwner:            {"owner", "Added by", "User", "Владелец"},
		FieldAddedAt:          {"added_at", "Added at", "Date added", "created_at"},
		FieldBatchNumber:      {"batch_number", "Lot number", "Партия"},
		FieldQuantityPcs:      {"quantity_pcs", "Quantiy in pcs", "Quantity in pcs"},
		FieldQuantity:         {"quantity", "Количество"},
		FieldUnits:            {"units", "Unit", "Единицы"},
		FieldExpiryDate:       {"expiry_date", "Expiry Date", "expiration_date", "Срок годности"},
		FieldLocation:         {"location", "Place", "Место хранения"},
		FieldHazardPictograms: {"hazard_pictograms", "Hazard", "GHS", "Pictograms", "Hazard Pictograms"},
	},
	KindBatches: {
		FieldReagentName:    {"reagent_name", "Reagent Name", "Reagent", "Название"},
		FieldBatchNumber:    {"batch_number", "Batch Number", "Lot number", "Партия"},
		FieldSupplier:       {"supplier", "Supplier"},
		FieldQuantity:       {"quantity", "Amount", "Количество"},
		FieldUnits:          {"units", "unit", "Единицы"},
		FieldExpirationDate: {"expiration_date", "Expiration Date", "expiry_date", "Expiry Date", "Срок годности"},
		FieldLocation:       {"location", "Место хранения"},
		FieldNotes:          {"notes", "Notes"},
	},
	KindEquipment: {
		FieldName:         {"name", "Название"},
		FieldType:         {"type", "equipment_type", "Equipment Type"},
		FieldSerialNumber: {"serial_number", "Serial Number", "Serial", "S/N"},
		FieldManufacturer: {"manufacturer", "Производитель"},
		FieldQuantity:     {"quantity", "Количество"},
		FieldUnit:         {"unit", "units", "Единицы"},
		FieldLocation:     {"location", "Место хранения"},
		FieldDescription:  {"description", "Описание"},
	},
}

var fieldSpecs = map[Kind]map[Field]fieldSpec{
	KindReagents: {
		FieldName:             {typ: textField},
		FieldFormula:          {typ: textField},
		FieldCASNumber:        {typ: textField},
		FieldMolecularWeight:  {typ: numberField},
		FieldManufacturer:     {typ: textField},
		FieldDescription:      {typ: textField},
		FieldCatalogNumber:    {typ: textField},
		FieldStorage:          {typ: textField},
		FieldAppearance:       {typ: textField},
		FieldOwner:            {typ: textField},
		FieldAddedAt:          {typ: dateField},
		FieldBatchNumber:      {typ: textField},
		FieldQuantityPcs:      {typ: textField},
		FieldQuantity:         {typ: numberField},
		FieldUnits:            {typ: textField},
		FieldExpiryDate:       {typ: dateField},
		FieldLocation:         {typ: textField},
		FieldHazardPictograms: {typ: textField},
	},
	KindBatches: {
		FieldReagentName:    {typ: textField},
		FieldBatchNumber:    {typ: textField},
		FieldSupplier:       {typ: textField},
		FieldQuantity:       {typ: numberField},
		FieldUnits:          {typ: textField},
		FieldExpirationDate: {typ: dateField},
		FieldLocation:       {typ: textField},
		FieldNotes:          {typ: textField},
	},
	KindEquipment: {
		FieldName:         {typ: textField},
		FieldType:         {typ: textField},
		FieldSerialNumber: {typ: textField},
		FieldManufacturer: {typ: textField},
		FieldQuantity:     {typ: integerField},
		FieldUnit:         {typ: textField},
		FieldLocation:     {typ: textField},
		FieldDescription:  {typ: textField},
	},
}

// headerIndex maps folded header spellings to fields, built once per kind.
var headerIndex = buildHeaderIndex()

func buildHeaderIndex() map[Kind]map[string]Field {
	out := make(map[Kind]map[string]Field, len(Aliases))
	for kind, fields := range Aliases {
		idx := make(map[string]Field)
		for field, spellings := range fields {
			idx[normalization.Key(string(field))] = field
			for _, s := range spellings {
				idx[normalization.Key(s)] = field
			}
		}
		out[kind] = idx
	}
	return out
}

// LookupField resolves a header or JSON key to its canonical field for kind.
func LookupField(kind Kind, header string) (Field, bool) {
	idx, ok := headerIndex[kind]
	if !ok {
		return "", false
	}
	f, ok := idx[normalization.Key(header)]
	return f, ok
}

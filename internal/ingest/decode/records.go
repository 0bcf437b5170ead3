package decode

// ReagentRecord is one decoded reagent row, optionally carrying an initial batch.
type ReagentRecord struct {
	Name             string
	Formula          *string
	CASNumber        *string
	MolecularWeight  *float64
	Manufacturer     *string
	Description      *string
	CatalogNumber    *string
	Storage          *string
	Appearance       *string
	Owner            *string
	AddedAt          *string
	BatchNumber      *string
	QuantityPcs      *string
	Quantity         *float64
	Units            *string
	ExpiryDate       *string
	Location         *string
	HazardPictograms *string
}

type BatchRecord struct {
	ReagentName    string
	BatchNumber    string
	Supplier       *string
	Quantity       float64
	Units          string
	ExpirationDate *string
	Location       *string
	Notes          *string
}

type EquipmentRecord struct {
	Name         string
	Type         string
	SerialNumber *string
	Manufacturer *string
	Quantity     *int
	Unit         *string
	Location     *string
	Description  *string
}

// Result holds the surviving records for the decoded kind plus the dropped-row errors.
type Result struct {
	Kind      Kind
	Reagents  []ReagentRecord
	Batches   []BatchRecord
	Equipment []EquipmentRecord
	Errors    []RowError
	// Total counts non-empty data rows seen, valid or not.
	Total int
}

func (r Result) Len() int {
	switch r.Kind {
	case KindReagents:
		return len(r.Reagents)
	case KindBatches:
		return len(r.Batches)
	case KindEquipment:
		return len(r.Equipment)
	default:
		return 0
	}
}

// FirstError renders the first row error, or "" when every row decoded.
func (r Result) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Error()
}

func (r Result) emptyErr() error {
	if r.Len() > 0 {
		return nil
	}
	return &EmptyBatchError{First: r.FirstError()}
}
